package pipeline

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/errors"
	rcdio "github.com/matzehuels/rcd/pkg/io"
)

// ParseData reads a CSV sample matrix from r.
func ParseData(r io.Reader) (*data.Matrix, error) {
	m, err := data.ReadCSV(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse data")
	}
	return m, nil
}

// LoadData reads a CSV sample matrix from path.
func LoadData(path string) (*data.Matrix, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseData(f)
}

// LoadTruth reads a ground-truth DAG document from path.
func LoadTruth(path string) (*dag.DAG, []string, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	g, names, err := rcdio.ReadDAG(f)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "parse ground truth %s", path)
	}
	return g, names, nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	return f, nil
}
