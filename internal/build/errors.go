package build

import "errors"

var (
	ErrBuild               = errors.New("build failed")
	ErrAssemble            = errors.New("image assembly failed")
	ErrFileSystemOperation = errors.New("file system operation failed")
)
