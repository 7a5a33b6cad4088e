package ipc

import "testing"

func TestCommandRoundTrip(t *testing.T) {
	var got []string
	err := StartServer(func(msg ControlMessage) Reply {
		got = append(got, msg.Cmd)
		if msg.Cmd == "status" {
			return Reply{Ok: true, Info: "running"}
		}
		return Reply{Ok: false, Info: "unknown command"}
	})
	if err != nil {
		t.Fatalf("start server: %v", err)
	}

	reply, err := SendCommand("status")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !reply.Ok || reply.Info != "running" {
		t.Errorf("reply = %+v", reply)
	}

	reply, err = SendCommand("dance")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Ok {
		t.Errorf("unknown command accepted: %+v", reply)
	}

	if len(got) != 2 || got[0] != "status" || got[1] != "dance" {
		t.Errorf("handler saw %v", got)
	}
}
