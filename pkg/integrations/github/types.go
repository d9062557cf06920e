package github

// Ref is a named git reference (branch or tag) as returned by the
// branches and tags endpoints.
type Ref struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}
