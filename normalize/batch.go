package normalize

// Split partitions items into contiguous, order-preserving chunks of at most
// size elements. The last chunk may be shorter. Empty input yields no chunks.
// Each chunk's capacity is capped so appending to it never writes into the next.
func Split[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, ErrInvalidBatchSize
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches, nil
}
