package model

// CommitInfo describes the source commit a deployment was built from.
type CommitInfo struct {
	SHA     string
	Message string
	Author  string
	URL     string
}
