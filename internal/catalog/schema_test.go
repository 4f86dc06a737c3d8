package catalog

import "testing"

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"minimal valid", `{"title":"Spring"}`, false},
		{"full valid", `{"title":"Spring","visibility":"password","password":"pw","keywords":["a","b"],"source_ref":"blob:abc"}`, false},
		{"empty title", `{"title":""}`, true},
		{"bad visibility", `{"title":"x","visibility":"secret"}`, true},
		{"unknown field", `{"title":"x","rating":5}`, true},
		{"keywords not strings", `{"title":"x","keywords":[1,2]}`, true},
		{"not json", `{title}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInput() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
