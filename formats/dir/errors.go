package dir

import "errors"

var (
	ErrBadName       = errors.New("file name does not follow azi<az>_ele<el>[_dist<d>][_<side>] layout")
	ErrNotAudioFile  = errors.New("not a valid audio file")
	ErrMissingStereo = errors.New("file without side suffix must have one channel per ear")
)
