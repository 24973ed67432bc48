package domain

// FileEntry is one input file of a build pass: a slash-separated relative
// path plus its content bytes.
type FileEntry struct {
	Path    string
	Content []byte
}

// ModuleInfo is the per-module metadata the transformer reports alongside a
// successful transform. FileKey ties the entry back to the cache record that
// produced it so pruning can drop modules whose file left the input tree.
type ModuleInfo struct {
	ID      string   `json:"id"`
	FileKey string   `json:"file_key,omitempty"`
	Imports []string `json:"imports,omitempty"`
}

// CacheRecord is the stored result of one transform, keyed by the per-file
// cache key. Records are never mutated in place: changed input yields a new
// key and a new record.
type CacheRecord struct {
	Key       string      `json:"key"`
	Output    []byte      `json:"output"`
	SourceMap []byte      `json:"source_map,omitempty"`
	Helpers   []string    `json:"helpers,omitempty"`
	Module    *ModuleInfo `json:"module,omitempty"`
}

// TransformResult is what the transformer returns for one file.
type TransformResult struct {
	Code      []byte
	SourceMap []byte
	Helpers   []string
	Module    *ModuleInfo
}

// Job is one unit of transform work: source text plus the canonical
// per-file configuration.
type Job struct {
	Path    string
	Source  []byte
	Options *FileOptions
}

// OutputFile is one transformed output to be written back into the output
// tree at a path mirroring the input's relative path.
type OutputFile struct {
	Path      string
	Code      []byte
	SourceMap []byte
}

// BuildConfig bundles the transform options with tool-level settings loaded
// from the project configuration file.
type BuildConfig struct {
	Options  Options
	CacheDir string
	Jobs     int
}
