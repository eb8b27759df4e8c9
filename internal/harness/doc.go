// Package harness runs end-to-end scenarios against the application layer.
//
// A scenario is a YAML file listing operations, the outcome each one must
// have, and assertions on the final state. Every run starts from an empty
// in-memory store, a manual clock at testutil.Epoch and sequential IDs, so
// the final state snapshot is byte-identical across runs and can be
// compared against a golden file.
//
// # Scenario Format
//
//	name: single_vote
//	description: "A second vote on the same poll changes nothing"
//	steps:
//	  - op: cast_vote
//	    args: { poll: default-poll-1, option: opt1 }
//	    expect: { counted: true }
//	  - op: cast_vote
//	    args: { poll: default-poll-1, option: opt2 }
//	    expect: { counted: false }
//	  - op: restart
//	assertions:
//	  - type: option_votes
//	    poll: default-poll-1
//	    option: opt1
//	    votes: 13
//
// # Operations
//
// Operations map one-to-one onto App methods: login, logout, add_vihar,
// update_vihar, set_vihar_status, delete_vihar, join_vihar, leave_vihar,
// add_poll, update_poll, set_poll_active, delete_poll, cast_vote and
// mark_read.
//
// Pseudo-operations act on the environment instead:
//
//   - restart: discard the App and load a new one from the same store
//   - reset_seed: clear the initialization flag (and, with wipe, the
//     vihar and poll collections), then restart
//   - advance: move the manual clock forward by args.duration
//
// # Expectations
//
// A step without expect must succeed. expect.error names the error kind
// the step must fail with: validation, not_found or invalid_credential.
// expect.counted checks the counted result of cast_vote.
//
// # Assertion Types
//
//   - vihar_present / vihar_absent: a vihar ID is (not) listed
//   - poll_present / poll_absent: a poll ID is (not) listed
//   - vihar_status: a vihar has the given status
//   - participants: a vihar's roster equals the given names, in order
//   - option_votes: an option has exactly the given vote count
//   - has_voted: whether this profile voted on a poll
//   - notification_count: total (or, with unread, unread) notifications
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/vote_once.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
