// Package github lists branches and tags of GitHub repositories.
//
// # Overview
//
// psvm discovers the releases it can resolve from repository references:
// release-crates-io-v* branches and polkadot-stable* tags of
// paritytech/polkadot-sdk, and polkadot-v* branches of dependency
// families such as ORML.
//
// # Usage
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"))
//	branches, err := client.ListBranches(ctx, "paritytech", "polkadot-sdk")
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// When a request is rate-limited the client retries the listing once through
// the GitHub CLI (gh api --paginate), which carries the user's own login.
package github
