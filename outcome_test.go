package refcache

import (
	"errors"
	"strconv"
	"testing"
)

func TestOutcomeKinds(t *testing.T) {
	boom := errors.New("boom")

	cases := []struct {
		name string
		out  Outcome[int]
		kind Kind
		err  error
	}{
		{"success", Success(3), KindSuccess, nil},
		{"timed_out", TimedOut[int](), KindTimedOut, ErrTimedOut},
		{"canceled", Canceled[int](), KindCanceled, ErrCanceled},
		{"failed", Failed[int](boom), KindFailed, boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := tc.out
			if o.Kind() != tc.kind {
				t.Fatalf("kind: got %v want %v", o.Kind(), tc.kind)
			}
			checks := map[Kind]bool{
				KindSuccess:  o.IsSuccess(),
				KindTimedOut: o.IsTimedOut(),
				KindCanceled: o.IsCanceled(),
				KindFailed:   o.IsFailed(),
			}
			for k, set := range checks {
				if set != (k == tc.kind) {
					t.Fatalf("Is%v() = %v for %v", k, set, tc.kind)
				}
			}
			if !errors.Is(o.Err(), tc.err) && !(tc.err == nil && o.Err() == nil) {
				t.Fatalf("Err: got %v want %v", o.Err(), tc.err)
			}
			if tc.kind != KindSuccess && o.Value() != 0 {
				t.Fatalf("non-success outcome carries value %d", o.Value())
			}
			if tc.kind != KindFailed && o.Error() != nil {
				t.Fatalf("non-failed outcome carries error %v", o.Error())
			}
		})
	}
}

func TestFailedNilErrorIsNeverEmpty(t *testing.T) {
	o := Failed[string](nil)
	if !errors.Is(o.Error(), ErrProducerFailed) {
		t.Fatalf("Failed(nil) should carry ErrProducerFailed, got %v", o.Error())
	}
}

func TestConvertKeepsKind(t *testing.T) {
	itoa := func(i int) string { return strconv.Itoa(i) }

	if v, ok := Convert(Success(12), itoa).Get(); !ok || v != "12" {
		t.Fatalf("Convert success: got %q ok=%v", v, ok)
	}
	boom := errors.New("boom")
	if o := Convert(Failed[int](boom), itoa); !o.IsFailed() || !errors.Is(o.Error(), boom) {
		t.Fatalf("Convert failed: got %v", o)
	}
	if o := Convert(TimedOut[int](), itoa); !o.IsTimedOut() {
		t.Fatalf("Convert timed out: got %v", o)
	}
	if o := Convert(Canceled[int](), itoa); !o.IsCanceled() {
		t.Fatalf("Convert canceled: got %v", o)
	}
}

func TestOutcomeString(t *testing.T) {
	if s := Success(1).String(); s != "Success(1)" {
		t.Fatalf("got %q", s)
	}
	if s := TimedOut[int]().String(); s != "timed_out" {
		t.Fatalf("got %q", s)
	}
}
