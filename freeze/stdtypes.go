package freeze

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"time"
)

// timeAdapter freezes an instant, not a representation: wall-clock location
// and the monotonic reading are discarded, so equal instants fingerprint
// equally regardless of zone.
func timeAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	t := v.Interface().(time.Time)
	sec := s.Scalar(t.Unix(), true)
	nsec := s.Scalar(int64(t.Nanosecond()), true)
	return s.Combine(s.Scalar("time.Time", true), s.Combine(sec, nsec)), nil
}

func regexpAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	re := v.Interface().(*regexp.Regexp)
	if re == nil {
		return s.Scalar(nil, true), nil
	}
	return s.Scalar("regexp:"+re.String(), true), nil
}

func bufferAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	buf := v.Interface().(*bytes.Buffer)
	if buf == nil {
		return s.Scalar(nil, true), nil
	}
	data := append([]byte(nil), buf.Bytes()...)
	return s.Combine(s.Scalar("bytes.Buffer", true), s.Scalar(data, false)), nil
}

// fileAdapter fingerprints an open file as its name plus current offset.
// The offset probe is a relative seek of zero, which does not move the
// cursor; streams that cannot seek are unfreezable.
func fileAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	f := v.Interface().(*os.File)
	if f == nil {
		return s.Scalar(nil, true), nil
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return Result{}, fmt.Errorf("%w: os.File %q is not seekable: %v", ErrUnfreezable, f.Name(), err)
	}
	attrs := []Attr{
		{Name: "name", Value: reflect.ValueOf(f.Name())},
		{Name: "pos", Value: reflect.ValueOf(pos)},
	}
	state, err := s.FreezeAttrs(attrs, false, false, depth)
	if err != nil {
		return Result{}, err
	}
	return s.Combine(s.Scalar("os.File", true), state), nil
}
