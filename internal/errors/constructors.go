package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *PipelineError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *PipelineError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *PipelineError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Stage errors

func FetchFailed(url string, cause error) *PipelineError {
	return Wrap(cause, CategoryFetch, SeverityFatal, "data fetch failed").
		WithContext("url", url)
}

func BuildFailed(command string, cause error) *PipelineError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "site build failed").
		WithContext("command", command)
}

func CommitFailed(cause error) *PipelineError {
	return Wrap(cause, CategoryGit, SeverityFatal, "commit creation failed")
}

func PushFailed(remote, branch string, cause error) *PipelineError {
	return Wrap(cause, CategoryGit, SeverityFatal, "push to remote failed").
		WithContext("remote", remote).
		WithContext("branch", branch)
}

func GitAuthFailed(remote string, cause error) *PipelineError {
	return Wrap(cause, CategoryAuth, SeverityFatal, "git authentication failed").
		WithContext("remote", remote)
}

func SnapshotWriteFailed(path string, cause error) *PipelineError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "snapshot write failed").
		WithContext("path", path)
}

// Runtime errors

func DaemonError(operation string, cause error) *PipelineError {
	return Wrap(cause, CategoryDaemon, SeverityFatal, "daemon operation failed").
		WithContext("operation", operation)
}
