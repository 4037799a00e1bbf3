package logging

// Field names for structured logging.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldOutput = "output"
	FieldRoot   = "root"
	FieldReason = "reason"
	FieldSize   = "size"

	FieldBuild    = "build"
	FieldFiles    = "files"
	FieldSkipped  = "skipped"
	FieldEntries  = "entries"
	FieldCached   = "cached"
	FieldDuration = "duration"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
