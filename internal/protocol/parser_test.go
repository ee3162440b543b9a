package protocol

import (
	"testing"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
		wantCmd string
	}{
		{
			name:    "scan reply",
			data:    []byte(`{"msg":{"cmd":"scan","data":{"device":"AA:BB","sku":"H6159","ip":"192.168.1.40"}}}`),
			wantErr: false,
			wantCmd: "scan",
		},
		{
			name:    "status reply",
			data:    []byte(`{"msg":{"cmd":"devStatus","data":{"onOff":1,"brightness":100}}}`),
			wantErr: false,
			wantCmd: "devStatus",
		},
		{
			name:    "unknown command still parses",
			data:    []byte(`{"msg":{"cmd":"ratePulse","data":{}}}`),
			wantErr: false,
			wantCmd: "ratePulse",
		},
		{
			name:    "not JSON",
			data:    []byte("\x7e\x03\x00\x00binary garbage"),
			wantErr: true,
		},
		{
			name:    "JSON but wrong shape",
			data:    []byte(`["not","an","envelope"]`),
			wantErr: true,
		},
		{
			name:    "missing cmd tag",
			data:    []byte(`{"msg":{"data":{"device":"AA:BB"}}}`),
			wantErr: true,
		},
		{
			name:    "empty datagram",
			data:    []byte{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEnvelope() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if env.Msg.Cmd != tt.wantCmd {
				t.Errorf("cmd = %q, want %q", env.Msg.Cmd, tt.wantCmd)
			}
		})
	}
}

func TestEnvelope_DeviceInfo(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
		wantID  string
		wantSKU string
		wantIP  string
	}{
		{
			name:    "complete scan reply",
			data:    []byte(`{"msg":{"cmd":"scan","data":{"device":"7D:31:C5:0B:1E:AB:CD:EF","sku":"H6159","ip":"192.168.1.40","wifiVersionSoft":"1.02.11"}}}`),
			wantErr: false,
			wantID:  "7D:31:C5:0B:1E:AB:CD:EF",
			wantSKU: "H6159",
			wantIP:  "192.168.1.40",
		},
		{
			name:    "missing device id",
			data:    []byte(`{"msg":{"cmd":"scan","data":{"sku":"H6159","ip":"192.168.1.40"}}}`),
			wantErr: true,
		},
		{
			name:    "missing sku",
			data:    []byte(`{"msg":{"cmd":"scan","data":{"device":"AA:BB","ip":"192.168.1.40"}}}`),
			wantErr: true,
		},
		{
			name:    "wrong command",
			data:    []byte(`{"msg":{"cmd":"devStatus","data":{"onOff":1}}}`),
			wantErr: true,
		},
		{
			name:    "payload is not an object",
			data:    []byte(`{"msg":{"cmd":"scan","data":[1,2,3]}}`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope(tt.data)
			if err != nil {
				t.Fatalf("ParseEnvelope() unexpected error: %v", err)
			}

			info, err := env.DeviceInfo()
			if (err != nil) != tt.wantErr {
				t.Fatalf("DeviceInfo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			if info.Device != tt.wantID {
				t.Errorf("Device = %q, want %q", info.Device, tt.wantID)
			}
			if info.SKU != tt.wantSKU {
				t.Errorf("SKU = %q, want %q", info.SKU, tt.wantSKU)
			}
			if info.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", info.IP, tt.wantIP)
			}
		})
	}
}

func TestEnvelope_StatusPayload(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"msg":{"cmd":"devStatus","data":{"onOff":1,"brightness":100}}}`))
	if err != nil {
		t.Fatalf("ParseEnvelope() unexpected error: %v", err)
	}

	payload, err := env.StatusPayload()
	if err != nil {
		t.Fatalf("StatusPayload() unexpected error: %v", err)
	}

	if payload["source"] != SourceLAN {
		t.Errorf("source tag = %v, want %q", payload["source"], SourceLAN)
	}
	if payload["onOff"] != float64(1) {
		t.Errorf("onOff = %v, want 1", payload["onOff"])
	}
	if payload["brightness"] != float64(100) {
		t.Errorf("brightness = %v, want 100", payload["brightness"])
	}
}

func TestEnvelope_StatusPayload_EmptyData(t *testing.T) {
	env := &Envelope{Msg: Message{Cmd: CmdDevStatus}}

	payload, err := env.StatusPayload()
	if err != nil {
		t.Fatalf("StatusPayload() unexpected error: %v", err)
	}

	// Even an empty status reply gets the source tag
	if len(payload) != 1 || payload["source"] != SourceLAN {
		t.Errorf("payload = %v, want only the source tag", payload)
	}
}
