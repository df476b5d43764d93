package cmd

import (
	"fmt"

	"github.com/pkg/errors"
)

var errNegativeInversion = errors.New("inversion must be >= 0")

func errUnknownQuality(q string) error {
	return fmt.Errorf("unknown chord quality %q", q)
}

func errUnknownRoot(r string) error {
	return fmt.Errorf("unknown root %q", r)
}
