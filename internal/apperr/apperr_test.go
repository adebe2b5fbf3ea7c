package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrappingPreservesSentinel(t *testing.T) {
	err := NotFound("vehicle with plate %s is not registered", "ABC1234")

	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped error should match ErrNotFound")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("wrapped error should not match a different sentinel")
	}

	want := "vehicle with plate ABC1234 is not registered: not found"
	if err.Error() != want {
		t.Errorf("message %q, want %q", err.Error(), want)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{InvalidInput("bad plate"), http.StatusBadRequest},
		{NotFound("no box"), http.StatusNotFound},
		{Duplicated("already parked"), http.StatusConflict},
		{ResourceInUse("box occupied"), http.StatusConflict},
		{OperationNotAllowed("last box"), http.StatusUnprocessableEntity},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
