// Package harness runs conformance scenarios against the query compiler.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	model: ../models/users.yaml     # or an inline whitelist
//	model_name: users
//	whitelist: { username: asc, created: desc, password: false }
//	options: { max_depth: 8, default_limit: 50, max_limit: 100 }
//	setup:                          # rows seeded before retrieval (needs model)
//	  - { username: badwolf, email: wolf@example.com }
//	query:
//	  filters: { username: { startswith: bad } }
//	  sort: username
//	expect:
//	  sql: "WHERE username LIKE ? ORDER BY username ASC LIMIT ?, ?"
//	  values: ["bad%", 0, 50]
//	  count: 1
//	  rows:
//	    - { username: badwolf }
//
// A scenario expecting failure names the stage and kind instead:
//
//	expect:
//	  error: { stage: filters, kind: config }
//
// # Assertions
//
//   - sql: exact match on the compiled SQL
//   - values: bound values, compared after numeric normalization
//   - sort: retained "field DIR" pairs
//   - error: stage and kind of the compile error (message substring optional)
//   - rows: rows returned by the store, in order, subset match per row
//   - count: number of rows matching the filter
//
// Rows and count run against a fresh in-memory SQLite store per scenario.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/mixed_combinator.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
