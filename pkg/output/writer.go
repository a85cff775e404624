package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// RanksFile is the default output file name inside the input directory
const RanksFile = "pageranks"

var ErrWrite = errors.New("cannot write ranks")

// FormatRanks writes one "%f" value per line in node order
func FormatRanks(w io.Writer, ranks []float64) error {
	bw := bufio.NewWriter(w)
	for _, r := range ranks {
		if _, err := fmt.Fprintf(bw, "%f\n", r); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteRanks replaces the file at path with the formatted ranks
func WriteRanks(path string, ranks []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w to %s: %w", ErrWrite, path, err)
	}

	if err := FormatRanks(file, ranks); err != nil {
		_ = file.Close()
		return fmt.Errorf("%w to %s: %w", ErrWrite, path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrWrite, path, err)
	}
	return nil
}
