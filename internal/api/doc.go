// Package api exposes the engine over HTTP: learner auth, content
// transformation, assessment grading, review submission, and mastery
// queries. Handlers validate and decode requests, call the services, and
// translate service errors into JSON responses with safe messages.
package api
