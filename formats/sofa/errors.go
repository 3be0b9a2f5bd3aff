package sofa

import "errors"

var (
	ErrNoImpulseData   = errors.New("container has no Data.IR array")
	ErrNoPositions     = errors.New("container has no SourcePosition array")
	ErrBadPositionType = errors.New("unsupported SourcePosition type")
	ErrShapeMismatch   = errors.New("Data.IR and SourcePosition disagree on measurement count")
)
