package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// ReportMUS is the MUS serializer for Report used by the key-value store.
//
// Field order is part of the on-disk format; append new fields at the end.
var ReportMUS = reportMUS{}

// IDMUS is the MUS serializer for ID.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	var u uint64
	u, n, err = varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type reportMUS struct{}

func (s reportMUS) Marshal(v Report, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Contact, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += varint.Int64.Marshal(int64(v.Status), bs[n:])
	n += ord.String.Marshal(v.Secret, bs[n:])
	n += ord.String.Marshal(v.OwnerID, bs[n:])
	n += ord.ByteSlice.Marshal(v.Image, bs[n:])
	n += ord.Bool.Marshal(v.Resolved, bs[n:])
	n += ord.Bool.Marshal(v.Matched, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(v.CreatedAt), bs[n:])
	n += varint.Int64.Marshal(timeToMicro(v.UpdatedAt), bs[n:])
	n += analysisMUS{}.Marshal(v.Analysis, bs[n:])
	return
}

func (s reportMUS) Unmarshal(bs []byte) (v Report, n int, err error) {
	var (
		n1      int
		status  int64
		created int64
		updated int64
	)
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Contact, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	status, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = Status(status)
	v.Secret, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.OwnerID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Image, n1, err = ord.ByteSlice.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Resolved, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Matched, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	created, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt = microToTime(created)
	updated, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = microToTime(updated)
	v.Analysis, n1, err = analysisMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (s reportMUS) Size(v Report) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Contact)
	size += ord.String.Size(v.Description)
	size += varint.Int64.Size(int64(v.Status))
	size += ord.String.Size(v.Secret)
	size += ord.String.Size(v.OwnerID)
	size += ord.ByteSlice.Size(v.Image)
	size += ord.Bool.Size(v.Resolved)
	size += ord.Bool.Size(v.Matched)
	size += varint.Int64.Size(timeToMicro(v.CreatedAt))
	size += varint.Int64.Size(timeToMicro(v.UpdatedAt))
	size += analysisMUS{}.Size(v.Analysis)
	return
}

func (s reportMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// analysisMUS encodes the computed fields. The vector is stored in its
// binary form; a malformed vector decodes as empty so the record stays
// readable and its fields can be recomputed.
type analysisMUS struct{}

func (s analysisMUS) Marshal(v Analysis, bs []byte) (n int) {
	raw, _ := v.Vector.MarshalBinary()
	n = ord.ByteSlice.Marshal(raw, bs)
	n += entitySetMUS{}.Marshal(v.Entities, bs[n:])
	n += ord.String.Marshal(string(v.Category), bs[n:])
	n += varint.Uint64.Marshal(v.Fingerprint, bs[n:])
	n += ord.String.Marshal(v.Model, bs[n:])
	return
}

func (s analysisMUS) Unmarshal(bs []byte) (v Analysis, n int, err error) {
	var (
		n1       int
		raw      []byte
		category string
	)
	if raw, n, err = ord.ByteSlice.Unmarshal(bs); err != nil {
		return
	}
	if v.Vector.UnmarshalBinary(raw) != nil {
		v.Vector = nil
	}
	v.Entities, n1, err = (entitySetMUS{}).Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Category = Category(category)
	v.Fingerprint, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil || n == len(bs) {
		// Records written before the model name was stored end here.
		return
	}
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s analysisMUS) Size(v Analysis) (size int) {
	size = ord.ByteSlice.Size(make([]byte, len(v.Vector)*4))
	size += entitySetMUS{}.Size(v.Entities)
	size += ord.String.Size(string(v.Category))
	size += varint.Uint64.Size(v.Fingerprint)
	size += ord.String.Size(v.Model)
	return
}

// entitySetMUS writes entities in EntityKinds order so encoding is stable.
type entitySetMUS struct{}

func (s entitySetMUS) Marshal(v EntitySet, bs []byte) (n int) {
	present := presentKinds(v)
	n = varint.Uint64.Marshal(uint64(len(present)), bs)
	for _, kind := range present {
		n += ord.String.Marshal(string(kind), bs[n:])
		n += ord.String.Marshal(v[kind], bs[n:])
	}
	return
}

func (s entitySetMUS) Unmarshal(bs []byte) (v EntitySet, n int, err error) {
	var (
		n1    int
		count uint64
		kind  string
		value string
	)
	if count, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	v = make(EntitySet, min(count, uint64(len(EntityKinds))))
	for i := uint64(0); i < count; i++ {
		kind, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		value, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v[EntityKind(kind)] = value
	}
	return
}

func (s entitySetMUS) Size(v EntitySet) (size int) {
	present := presentKinds(v)
	size = varint.Uint64.Size(uint64(len(present)))
	for _, kind := range present {
		size += ord.String.Size(string(kind))
		size += ord.String.Size(v[kind])
	}
	return
}

func presentKinds(v EntitySet) []EntityKind {
	var out []EntityKind
	for _, kind := range EntityKinds {
		if _, ok := v.Get(kind); ok {
			out = append(out, kind)
		}
	}
	return out
}

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(us int64) time.Time {
	if us == 0 {
		return time.Time{}
	}
	return time.UnixMicro(us).UTC()
}
