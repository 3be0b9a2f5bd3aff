package mat

import "errors"

var (
	ErrNotMatFile        = errors.New("not a MAT v5 file")
	ErrBigEndianMat      = errors.New("big-endian MAT files not supported")
	ErrTruncatedElement  = errors.New("truncated MAT element")
	ErrNoResponseArrays  = errors.New("no hrir_l or hrir_r arrays present")
	ErrUnexpectedGrid    = errors.New("response array does not match the measurement grid")
)
