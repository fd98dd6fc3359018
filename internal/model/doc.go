// Package model defines domain data structures shared by the extraction
// pipeline: the inbound request, probed media metadata, artifacts staged on
// disk, the packaged response, and the pipeline stage enum.
package model
