package memo

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/windrose/internal/domain/frame"
	"github.com/okian/windrose/internal/domain/options"
	"github.com/okian/windrose/internal/domain/series"
)

// Key is the fingerprint of one (frames, options) input.
type Key uint64

// value tags keep values of different kinds apart in the digest.
const (
	tagNil byte = iota
	tagBool
	tagString
	tagNumber
	tagTime
	tagOther
)

// Fingerprint hashes frames and resolved options. Numeric values hash by
// value regardless of their Go kind, since they normalise identically.
func Fingerprint(frames []frame.Frame, o options.Options) (Key, error) {
	opts, err := json.Marshal(o)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFingerprint, err)
	}

	h := hasher{d: xxhash.New()}
	h.bytes(opts)
	h.uint(uint64(len(frames)))
	for i := range frames {
		h.frame(&frames[i])
	}
	return Key(h.d.Sum64()), nil
}

type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (h *hasher) frame(fr *frame.Frame) {
	h.str(fr.Name)
	h.uint(uint64(len(fr.Fields)))
	for i := range fr.Fields {
		f := &fr.Fields[i]
		h.str(f.Name)
		h.str(string(f.Type))
		h.str(f.DisplayName)
		h.labels(f.Labels)
		if f.Values == nil {
			h.byte(0)
			continue
		}
		h.byte(1)
		h.uint(uint64(len(f.Values)))
		for _, v := range f.Values {
			h.value(v)
		}
	}
}

func (h *hasher) labels(labels map[string]string) {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h.uint(uint64(len(keys)))
	for _, k := range keys {
		h.str(k)
		h.str(labels[k])
	}
}

func (h *hasher) value(v any) {
	switch t := v.(type) {
	case nil:
		h.byte(tagNil)
	case bool:
		h.byte(tagBool)
		if t {
			h.byte(1)
		} else {
			h.byte(0)
		}
	case string:
		h.byte(tagString)
		h.str(t)
	case time.Time:
		h.byte(tagTime)
		h.uint(uint64(t.UnixNano()))
	default:
		if f, ok := series.ToFloat(v); ok {
			h.byte(tagNumber)
			if math.IsNaN(f) {
				f = math.NaN()
			}
			h.uint(math.Float64bits(f))
			return
		}
		h.byte(tagOther)
		h.str(fmt.Sprintf("%T:%v", v, v))
	}
}

func (h *hasher) uint(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) byte(b byte) {
	h.buf[0] = b
	_, _ = h.d.Write(h.buf[:1])
}

func (h *hasher) str(s string) {
	h.uint(uint64(len(s)))
	_, _ = h.d.WriteString(s)
}

func (h *hasher) bytes(b []byte) {
	h.uint(uint64(len(b)))
	_, _ = h.d.Write(b)
}
