// Package tools provides mock implementations of the planner's search
// collaborators: flights, hotels, weather and activities. They generate
// plausible records from fixed pools, are safe for concurrent use, and
// accept a seed so tests get stable output. Nothing here talks to a real
// backend.
package tools
