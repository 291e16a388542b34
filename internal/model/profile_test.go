package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringList_UnmarshalArray(t *testing.T) {
	var s StringList
	if err := json.Unmarshal([]byte(`["a","b","c"]`), &s); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if !reflect.DeepEqual([]string(s), []string{"a", "b", "c"}) {
		t.Errorf("got %v, want [a b c]", s)
	}
}

func TestStringList_UnmarshalDelimitedString(t *testing.T) {
	var s StringList
	if err := json.Unmarshal([]byte(`"a, b ,c"`), &s); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	// Split on commas, each tag trimmed of surrounding whitespace.
	if !reflect.DeepEqual([]string(s), []string{"a", "b", "c"}) {
		t.Errorf("got %v, want [a b c]", s)
	}
}

func TestStringList_UnmarshalEmptyString(t *testing.T) {
	var s StringList
	if err := json.Unmarshal([]byte(`"  "`), &s); err != nil {
		t.Fatalf("unmarshal blank string: %v", err)
	}
	if len(s) != 0 {
		t.Errorf("blank string should decode to an empty list, got %v", s)
	}
}

func TestStringList_RejectsOtherTypes(t *testing.T) {
	var s StringList
	if err := json.Unmarshal([]byte(`42`), &s); err == nil {
		t.Error("numbers should not decode into a StringList")
	}
}

func TestUserJSONNeverExposesPasswordHash(t *testing.T) {
	u := User{ID: "u1", Name: "Jo", Email: "jo@x.com", PasswordHash: "$2a$12$secret"}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) == "" || json.Valid(b) == false {
		t.Fatal("marshal produced invalid JSON")
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for k := range m {
		if k == "password" || k == "passwordHash" || k == "PasswordHash" {
			t.Errorf("password hash leaked into JSON under key %q", k)
		}
	}
}
