package domain

import "testing"

func TestEnqueueEmailRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     EnqueueEmailRequest
		wantErr error
	}{
		{"valid", EnqueueEmailRequest{Type: TypeBookingRequest, Recipient: "a@b.c"}, nil},
		{"bad type", EnqueueEmailRequest{Type: "fax", Recipient: "a@b.c"}, ErrInvalidType},
		{"empty recipient", EnqueueEmailRequest{Type: TypeVenueRequest}, ErrInvalidRecipient},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestInsertLogRequest_Validate(t *testing.T) {
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name    string
		req     InsertLogRequest
		wantErr error
	}{
		{"valid", InsertLogRequest{EventType: "page_view", Severity: SeverityInfo}, nil},
		{"bad severity", InsertLogRequest{EventType: "page_view", Severity: "debug"}, ErrInvalidSeverity},
		{"empty event", InsertLogRequest{Severity: SeverityError}, ErrEventTooLong},
		{"event too long", InsertLogRequest{EventType: string(long), Severity: SeverityInfo}, ErrEventTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCheckoutRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CheckoutRequest
		wantErr error
	}{
		{"valid", CheckoutRequest{Cents: 50, Email: "a@b.c"}, nil},
		{"below minimum", CheckoutRequest{Cents: 49, Email: "a@b.c"}, ErrAmountTooSmall},
		{"missing email", CheckoutRequest{Cents: 500}, ErrEmailRequired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() || StatusProcessing.IsTerminal() {
		t.Fatal("pending and processing are not terminal")
	}
	if !StatusSent.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Fatal("sent and failed are terminal")
	}
}
