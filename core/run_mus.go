package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// errNegativeLength is returned when a decoded slice length is negative.
var errNegativeLength = errors.New("negative length")

// IDMUS serializes an ID in MUS format.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// RunMUS serializes a Run in MUS format. Timestamps are stored as Unix
// microseconds; a zero time round trips as zero.
var RunMUS = runMUS{}

type runMUS struct{}

func (s runMUS) Marshal(v Run, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Uint64.Marshal(uint64(v.Fingerprint), bs[n:])
	n += ord.String.Marshal(v.InputPath, bs[n:])
	n += ord.String.Marshal(v.OutputPath, bs[n:])
	n += ord.String.Marshal(v.Provider, bs[n:])
	n += ord.String.Marshal(v.Model, bs[n:])
	n += varint.Int.Marshal(v.BatchSize, bs[n:])
	n += varint.Int.Marshal(v.Batches, bs[n:])
	n += varint.Int.Marshal(v.Indicators, bs[n:])
	n += varint.Int.Marshal(len(v.FailedBatches), bs[n:])
	for _, b := range v.FailedBatches {
		n += varint.Int.Marshal(b, bs[n:])
	}
	n += varint.Int.Marshal(len(v.Artifacts), bs[n:])
	for _, a := range v.Artifacts {
		n += ord.String.Marshal(a, bs[n:])
	}
	n += varint.Int64.Marshal(toMicro(v.StartedAt), bs[n:])
	n += varint.Int64.Marshal(toMicro(v.FinishedAt), bs[n:])
	return n
}

func (s runMUS) Unmarshal(bs []byte) (v Run, n int, err error) {
	var n1 int
	if v.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	var fp uint64
	if fp, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return
	}
	v.Fingerprint = Fingerprint(fp)
	n += n1
	for _, field := range []*string{&v.InputPath, &v.OutputPath, &v.Provider, &v.Model} {
		if *field, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
	}
	for _, field := range []*int{&v.BatchSize, &v.Batches, &v.Indicators} {
		if *field, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
	}

	var length int
	if length, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if length < 0 {
		err = errNegativeLength
		return
	}
	if length > 0 {
		v.FailedBatches = make([]int, length)
		for i := range v.FailedBatches {
			if v.FailedBatches[i], n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}

	if length, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if length < 0 {
		err = errNegativeLength
		return
	}
	if length > 0 {
		v.Artifacts = make([]string, length)
		for i := range v.Artifacts {
			if v.Artifacts[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}

	for _, field := range []*time.Time{&v.StartedAt, &v.FinishedAt} {
		var micro int64
		if micro, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		*field = fromMicro(micro)
	}
	return
}

func (s runMUS) Size(v Run) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Uint64.Size(uint64(v.Fingerprint))
	size += ord.String.Size(v.InputPath)
	size += ord.String.Size(v.OutputPath)
	size += ord.String.Size(v.Provider)
	size += ord.String.Size(v.Model)
	size += varint.Int.Size(v.BatchSize)
	size += varint.Int.Size(v.Batches)
	size += varint.Int.Size(v.Indicators)
	size += varint.Int.Size(len(v.FailedBatches))
	for _, b := range v.FailedBatches {
		size += varint.Int.Size(b)
	}
	size += varint.Int.Size(len(v.Artifacts))
	for _, a := range v.Artifacts {
		size += ord.String.Size(a)
	}
	size += varint.Int64.Size(toMicro(v.StartedAt))
	size += varint.Int64.Size(toMicro(v.FinishedAt))
	return size
}

func toMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromMicro(micro int64) time.Time {
	if micro == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micro).UTC()
}
