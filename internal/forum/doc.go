// Package forum talks to the public discussion board that mirrors the
// article corpus: GitHub Discussions.
//
// The reconciler only ever lists, creates, and updates discussions; it
// never deletes one and never mutates a discussion's identity. Discussions
// are a GraphQL-only surface of the GitHub API, so the client is built on
// githubv4 rather than the REST API.
package forum
