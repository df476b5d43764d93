package util

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

func Clamp[A constraints.Ordered](v A, lo A, hi A) A {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Sum[A Number](nums []A) A {
	var total A
	for _, v := range nums {
		total += v
	}
	return total
}

// Dedupe keeps the first occurrence of every value, preserving order.
func Dedupe[A comparable](items []A) []A {
	seen := make(map[A]bool, len(items))
	res := make([]A, 0, len(items))
	for _, v := range items {
		if seen[v] {
			continue
		}
		seen[v] = true
		res = append(res, v)
	}
	return res
}

func CreateBinary(filename string, data any) error {
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)
	if err := encoder.Encode(data); err != nil {
		return errors.Wrap(err, "could not encode binary")
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "could not create dir for %v", filename)
		}
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "write failed for file %v", filename)
	}
	return nil
}

func ReadBinary[A any](path string) (A, error) {
	var data A
	f, err := os.Open(path)
	if err != nil {
		return data, errors.Wrap(err, "could not load binary file")
	}
	defer f.Close()

	decoder := gob.NewDecoder(f)
	if err := decoder.Decode(&data); err != nil {
		return data, errors.Wrapf(err, "could not decode binary file %v", path)
	}
	return data, nil
}
