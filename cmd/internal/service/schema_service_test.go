package service

import (
	"testing"

	"simplecms/cmd/internal/utils/apierror"
)

func TestSchemaService_Describe(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSchemaService(env.registry)

	lists := svc.Describe()
	if len(lists) != 4 {
		t.Fatalf("len(lists) = %d, want 4", len(lists))
	}

	users, apierr := svc.DescribeList("users")
	if apierr != nil {
		t.Fatalf("DescribeList() error = %+v", apierr)
	}
	for _, f := range users.Fields {
		if f.Name == "password" && f.Capabilities.Readable {
			t.Error("password field must not be readable")
		}
	}

	if _, apierr := svc.DescribeList("widgets"); apierr != apierror.UnknownListError {
		t.Errorf("DescribeList(widgets) = %+v, want unknown list", apierr)
	}
}
