package errors

import (
	"fmt"
	"os"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{ErrInputNotFound, KindFileNotFound},
		{fmt.Errorf("open: %w", os.ErrNotExist), KindFileNotFound},
		{Wrap(ErrDecode, "arrow"), KindDecode},
		{Wrapf(ErrEncode, "dataset %s", "ds"), KindEncode},
		{fmt.Errorf("save: %w", os.ErrPermission), KindEncode},
		{New("something else"), KindUnknown},
		{nil, KindUnknown},
	}

	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Errorf("Classify(%v) = %s, want %s", c.err, got, c.want)
		}
	}
}

func TestKindString(t *testing.T) {
	names := map[Kind]string{
		KindFileNotFound: "FileNotFound",
		KindDecode:       "DecodeError",
		KindEncode:       "EncodeError",
		KindUnknown:      "UnknownFailure",
	}
	for k, want := range names {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestTiers(t *testing.T) {
	if !IsConfiguration(ErrInvalidMonthRange) {
		t.Error("month range should be a configuration error")
	}
	if !IsConfiguration(Wrap(ErrSampleTooLarge, "size 100")) {
		t.Error("wrapped sample size should stay a configuration error")
	}
	if IsConfiguration(ErrDecode) {
		t.Error("decode is not a configuration error")
	}

	if !IsConversion(ErrInputNotFound) {
		t.Error("missing input should be a conversion error")
	}
	if IsConversion(ErrInvertedRange) {
		t.Error("inverted range is not a conversion error")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
}
