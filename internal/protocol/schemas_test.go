package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	tickSchema := compile("tick.schema.json")
	actSchema := compile("act.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "player_name":"bot1"
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "player_id":"P1",
	  "game_params":{"tick_ms":500,"map_width":4400,"map_height":2600}
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var tick any
	_ = json.Unmarshal([]byte(`{
	  "type":"TICK",
	  "protocol_version":"1.0",
	  "tick":12,
	  "player_id":"P1",
	  "payload":{
	    "spirits":[{
	      "id":"P1_1","player":"P1","pos":[100,200],"size":1,
	      "energy":7,"energy_capacity":10,"hp":1,"shape":"circle",
	      "mark":"harvest","last_energized":"star_a",
	      "sight":{"friends":[],"enemies":["P2_3"],"structures":["star_a"]}
	    }],
	    "bases":[{
	      "id":"base_p1","kind":"base","pos":[300,300],"energy":150,
	      "energy_capacity":400,"control":"P1","current_spirit_cost":100,
	      "sight":{"friends":["P1_1"],"enemies":[],"structures":[]}
	    }],
	    "stars":[{
	      "id":"star_a","kind":"star","pos":[500,500],"energy":900,
	      "energy_capacity":1000,"high_yield":true
	    }],
	    "outposts":[{
	      "id":"outpost_1","kind":"outpost","pos":[2200,1300],"energy":500,
	      "energy_capacity":1000,"control":"P2",
	      "sight":{"friends":[],"enemies":["P1_1"],"structures":[]}
	    }],
	    "pylons":[{
	      "id":"pylon_1","kind":"pylon","pos":[800,800],"energy":50,
	      "energy_capacity":200,"control":"P1",
	      "sight":{"friends":["P1_1"],"enemies":[],"structures":[]}
	    }]
	  }
	}`), &tick)
	validate(tickSchema, tick)

	var act any
	_ = json.Unmarshal([]byte(`{
	  "type":"ACT",
	  "protocol_version":"1.0",
	  "tick":12,
	  "player_id":"P1",
	  "commands":[
	    {"type":"ENERGIZE","spirit":"P1_1","target":"base_p1"},
	    {"type":"MOVE","spirit":"P1_2","to":[410.5,220]},
	    {"type":"SHOUT","spirit":"P1_3","text":"regroup"},
	    {"type":"SET_MARK","spirit":"P1_3","mark":"defend"}
	  ]
	}`), &act)
	validate(actSchema, act)
}
