// Package fsstat reports whether a path names a regular file, a directory,
// or nothing usable.
package fsstat

import "os"

// Kind classifies a filesystem path.
type Kind int

const (
	// Absent covers missing paths and every stat failure.
	Absent Kind = iota
	// RegularFile is a plain file, after following symlinks.
	RegularFile
	// Directory is a directory, after following symlinks.
	Directory
)

func (k Kind) String() string {
	switch k {
	case RegularFile:
		return "file"
	case Directory:
		return "directory"
	default:
		return "absent"
	}
}

// Stat classifies path. Permission errors, broken symlinks and other stat
// failures are reported as Absent, as are sockets, devices and pipes.
func Stat(path string) Kind {
	info, err := os.Stat(path)
	if err != nil {
		return Absent
	}
	switch mode := info.Mode(); {
	case mode.IsRegular():
		return RegularFile
	case mode.IsDir():
		return Directory
	default:
		return Absent
	}
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	return Stat(path) == Directory
}
