package photometric

import "errors"

var (
	// ErrNoSphere indicates the calibration image has no foreground pixel.
	ErrNoSphere = errors.New("photometric: no sphere pixels in image")
	// ErrNoLight indicates no light direction can be derived from the
	// highlight, such as a highlight on the center of a zero-radius sphere.
	ErrNoLight = errors.New("photometric: cannot derive light direction")
	// ErrSingularLights indicates three light directions that do not span 3D.
	ErrSingularLights = errors.New("photometric: light directions are not invertible")
	// ErrInvalidParams indicates an unreadable sphere or lights file.
	ErrInvalidParams = errors.New("photometric: invalid parameters file")
)
