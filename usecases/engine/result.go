//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package engine

// Counters reported by the in-process engine.
const (
	InputRecords    = "INPUT_RECORDS"
	OutputRecords   = "OUTPUT_RECORDS"
	ShuffledRecords = "SHUFFLED_RECORDS"
)

type Result struct {
	JobID  string        `json:"jobId"`
	Stages []StageResult `json:"stages"`
}

type StageResult struct {
	Name     string           `json:"name"`
	Counters map[string]int64 `json:"counters"`
}

// Counter returns the value of a counter, if the engine reported it.
func (s StageResult) Counter(name string) (int64, bool) {
	v, ok := s.Counters[name]
	return v, ok
}
