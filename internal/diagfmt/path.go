package diagfmt

import (
	"taskml/internal/source"
)

func sourceFile(fs *source.FileSet, id source.FileID) *source.File {
	if fs == nil || int(id) >= fs.Len() {
		return nil
	}
	return fs.Get(id)
}

// displayPath formats the path of file id. It returns "" when the file is
// unknown.
func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := sourceFile(fs, id)
	if f == nil {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", fs.BaseDir())
	}
}
