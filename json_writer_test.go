package custodian

import "testing"

func TestJSONObjectWriter(t *testing.T) {
	var w jsonObjectWriter
	w.Append("a", 1)
	w.Optional("b", "")  // zero value, skipped
	w.Optional("c", "x") // non-zero, kept
	w.Append("d", []int{1, 2})

	data, err := w.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"a":1,"c":"x","d":[1,2]}`
	if string(data) != want {
		t.Errorf("MarshalJSON() = %s, want %s", data, want)
	}
}

func TestJSONObjectWriter_Empty(t *testing.T) {
	var w jsonObjectWriter
	data, err := w.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("MarshalJSON() = %s, want {}", data)
	}
}

func TestJSONObjectWriter_Embed(t *testing.T) {
	var w jsonObjectWriter
	w.Append("date", "2024-01-10")
	w.EmbedFrom(struct {
		Symbol string `json:"symbol"`
	}{"AAPL"})

	data, err := w.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"date":"2024-01-10","symbol":"AAPL"}`
	if string(data) != want {
		t.Errorf("MarshalJSON() = %s, want %s", data, want)
	}
}
