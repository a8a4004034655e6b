// Package scene holds the world a placement session runs against: build
// classes, the actors spawned from them, and the scripted sequence of
// hit-tests to replay.
package scene
