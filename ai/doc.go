// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides the model-invocation abstraction used by stixify.
//
// The normalization pipeline depends only on the Generator interface, so the
// concrete language model is a pluggable capability selected at startup.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI chat completions with structured outputs, plus
//     NewLocalGenerator for OpenAI-compatible servers such as Ollama
//   - ai/googleai: Google Gemini in JSON mode
//   - ai/mock: Test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewGenerator, googleai.NewGenerator) return the
// ai.Generator interface. The mock constructor returns *mock.MockGenerator so
// tests can script responses and assert on CallCount and Requests.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderOpenAI),
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
//	gen, err := openai.NewGenerator(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	raw, err := gen.Generate(ctx, &ai.Request{Instruction: sys, Payload: batch})
//
// Providers differ in how they constrain output. The OpenAI variant wraps the
// array schema under an "items" key because structured outputs require an
// object root; the others return a bare array. Callers unwrap either form.
package ai
