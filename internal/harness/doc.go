// Package harness runs scripted practice scenarios against a fresh session
// and checks what happened.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: manhattan
//	description: Filter stations by borough
//	verify: positional
//	steps:
//	  - select: {tier: easy, question: 0}
//	  - submit: SELECT name FROM stations WHERE borough = "Manhattan";
//	    expect: {outcome: correct, rows: 7, columns: [name]}
//	  - toggle: hint
//	assertions:
//	  - {type: attempt_count, count: 1}
//	  - {type: outcome_sequence, outcomes: [correct]}
//	  - type: final_state
//	    expect: {tier: easy, question: 0, hint_visible: true}
//
// Each step does exactly one of select, submit, or toggle. A submit step
// sets the editor text and runs it; its optional expect clause checks the
// outcome, the row count, the column names, or a fragment of the engine's
// error message.
//
// # Assertion Types
//
//   - attempt_count: the number of runs
//   - outcome_sequence: the outcome of every run, in order
//   - final_state: selected fields of the session state after the last step
//
// # Deterministic Testing
//
// Every scenario gets its own session and its own engine, attempt IDs from
// testutil.SequenceIDs, and sequence numbers from a fresh session.Clock.
// Running a scenario twice produces
// byte-identical snapshots, which golden files under golden/ pin down.
package harness
