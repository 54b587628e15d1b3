package persist

import "testing"

func TestValidateTasks(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid snapshot",
			data: `[{"Id":1,"UserId":7,"Title":"sooner","IsCompleted":false,
				"Category":"General","Priority":"H","DueDate":"2026-09-01T00:00:00Z"}]`,
			wantErr: false,
		},
		{
			name:    "empty array",
			data:    `[]`,
			wantErr: false,
		},
		{
			name:    "no due date",
			data:    `[{"Id":2,"UserId":1,"Title":"t","IsCompleted":true,"Category":"Work","Priority":""}]`,
			wantErr: false,
		},
		{
			name:    "not an array",
			data:    `{"Id":1}`,
			wantErr: true,
		},
		{
			name:    "string id",
			data:    `[{"Id":"1","UserId":1,"Title":"t","IsCompleted":false}]`,
			wantErr: true,
		},
		{
			name:    "missing title",
			data:    `[{"Id":1,"UserId":1,"IsCompleted":false}]`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTasks([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTasks() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsers(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name:    "valid snapshot",
			data:    `[{"Id":1,"Username":"admin","Password":"123","Role":"Admin"}]`,
			wantErr: false,
		},
		{
			name: "embedded task list",
			data: `[{"Id":2,"Username":"u1","Password":"p","Role":"User",
				"Tasks":[{"Id":1,"UserId":2,"Title":"t","IsCompleted":false}]}]`,
			wantErr: false,
		},
		{
			name:    "missing password",
			data:    `[{"Id":1,"Username":"admin","Role":"Admin"}]`,
			wantErr: true,
		},
		{
			name:    "zero id",
			data:    `[{"Id":0,"Username":"u","Password":"p","Role":"User"}]`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsers([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsers() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
