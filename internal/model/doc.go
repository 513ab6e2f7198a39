// Package model loads table definitions and exposes them as filter
// whitelists.
//
// A definition file holds one or more models under a "models" key. YAML,
// JSON and CUE are accepted; field order is kept as written, so column
// lists and migrations follow the file.
//
//	models:
//	  users:
//	    schema: badwolf_master
//	    table: users
//	    fields:
//	      user_id:  {type: CHAR(36), primary_key: true, generate: uuid}
//	      username: {type: VARCHAR(255), sortable: true}
//	      created:  {type: TIMESTAMP, sortable: desc}
//	      password: {type: VARCHAR(127), hidden: true}
//	    associations:
//	      status:
//	        type: hasOne
//	        schema: badwolf_master
//	        table: statuses
//	        key: status_id
//
// Definition problems are reported as filterir config errors whose path
// points into the document, e.g. "models.users.fields.created.sortable".
package model
