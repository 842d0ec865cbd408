package router

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type addressProbe struct {
	Phone   string `json:"phone" binding:"required,phone_in"`
	Pincode string `json:"pincode" binding:"required,pincode"`
}

func TestRegisterValidators(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatalf("register validators failed: %v", err)
	}

	cases := []struct {
		name    string
		probe   addressProbe
		wantErr bool
	}{
		{name: "plain mobile", probe: addressProbe{Phone: "9876543210", Pincode: "411001"}},
		{name: "country code", probe: addressProbe{Phone: "+91 98765-43210", Pincode: "560034"}},
		{name: "trunk prefix", probe: addressProbe{Phone: "09876543210", Pincode: "110001"}},
		{name: "landline style", probe: addressProbe{Phone: "5876543210", Pincode: "411001"}, wantErr: true},
		{name: "short phone", probe: addressProbe{Phone: "98765", Pincode: "411001"}, wantErr: true},
		{name: "pincode leading zero", probe: addressProbe{Phone: "9876543210", Pincode: "011001"}, wantErr: true},
		{name: "pincode letters", probe: addressProbe{Phone: "9876543210", Pincode: "41100A"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tc.probe)
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error for %+v", tc.probe)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
