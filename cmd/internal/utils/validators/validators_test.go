package validators

import "testing"

func TestNew_RegistersEveryTag(t *testing.T) {
	validate := New()

	for tag := range tags() {
		t.Run(tag, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("tag %q is not registered: %v", tag, r)
				}
			}()
			_ = validate.Var("x", tag)
		})
	}
}

func TestCustomTags(t *testing.T) {
	validate := New()

	tests := []struct {
		name    string
		value   any
		tag     string
		wantErr bool
	}{
		{"slug ok", "hello-world", "slug", false},
		{"slug with upper case", "Hello", "slug", true},
		{"slug with double dash", "a--b", "slug", true},
		{"password ok", "Secret123", "hasupper,haslower,hasdigit", false},
		{"password without digit", "SecretOne", "hasdigit", true},
		{"password without upper", "secret123", "hasupper", true},
		{"unique ids", []string{"1", "2"}, "nodupes", false},
		{"duplicate ids", []string{"1", "1"}, "nodupes", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Var(tt.value, tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("Var(%v, %q) error = %v, wantErr %v", tt.value, tt.tag, err, tt.wantErr)
			}
		})
	}
}
