//go:build !linux

package platform

func newX11Backend(string) (Backend, error) {
	return nil, ErrUnsupported
}
