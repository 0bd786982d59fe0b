// Package quiz provides the read-only catalog of practice questions.
//
// Questions are grouped into difficulty tiers. Each tier keeps its questions
// in a fixed order, and the tiers themselves are ordered easy, medium, hard,
// superhard (a custom bank may list a subset, in any order, once each).
//
// # Bank Format
//
// The built-in bank is an embedded CUE file validated against the #Bank
// definition in schema.cue:
//
//	tiers: [{
//		name:  "easy"
//		label: "Easy"
//		questions: [{
//			prompt:   "Which stations are in Manhattan?"
//			summary:  "Filter stations by borough"
//			solution: "SELECT name FROM stations WHERE borough = 'Manhattan';"
//			hint:     "Filter with WHERE."
//		}]
//	}]
//
// LoadFile accepts the same structure as .cue, .yaml/.yml or .json. CUE
// files are unified with #Bank; YAML and JSON files are decoded strictly and
// checked by the same Go validation. All text is normalized to NFC.
package quiz
