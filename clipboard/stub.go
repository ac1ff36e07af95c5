//go:build !darwin && !linux

package clipboard

type stubReader struct{}

func defaultReader() Reader { return stubReader{} }

func (stubReader) ReadText() (string, error) {
	return "", ErrUnavailable
}
