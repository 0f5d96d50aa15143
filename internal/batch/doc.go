// Package batch walks a directory of containers, picks the cleanest English
// text subtitle track from each one, and hands the tracks to a single
// reviewer in filename order.
//
// Preparation (inspect, demux, parse, score, select) runs concurrently in a
// bounded worker pool. At most two prepared files per worker wait for review
// at any time. Only the consumer writes output files.
package batch
