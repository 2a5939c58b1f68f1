// Package analysis reads the MiniZinc compiler's JSON message stream.
//
// The compiler writes one JSON object per line. Three message types are
// understood:
//
//	{"type":"error","location":{...},"message":"..."}
//	{"type":"paths","paths":[{"id":"x","path":"model.mzn|3|5|3|9|..."}]}
//	{"type":"profile","entries":[{"line":3,"constraints":7,"variables":2,"time":40}]}
//
// Warnings use "type":"warning". Every other message type is ignored.
// Lines that are not valid JSON objects are counted and skipped.
package analysis
