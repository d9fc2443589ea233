package api

import (
	"net/http"
	"time"

	"github.com/rbergstrom/euphony/internal/dmap"
)

// Protocol/version constants advertised in /server-info.
var (
	dmapProtocolVersion    = dmap.Version{2, 0, 6, 0}
	daapProtocolVersion    = dmap.Version{3, 0, 8, 0}
	itunesSharingVersion   = dmap.Version{3, 0, 1, 0}
	dacpTimeoutSeconds     = int64(1800)
	speakerMachineAddrList = []int64{0x0000298F668C2400, 0x00000100C0565000, 0x00000800C0565000}
)

// ServerInfo serves /server-info: the capability descriptor every remote
// reads once on connect.
func (a *API) ServerInfo(w http.ResponseWriter, r *http.Request) {
	msma := make([]dmap.NodeSpec, len(speakerMachineAddrList))
	for i, addr := range speakerMachineAddrList {
		msma[i] = scalar("msma", addr)
	}

	spec := container("msrv",
		scalar("mstt", 200),
		scalar("mpro", dmapProtocolVersion),
		scalar("apro", daapProtocolVersion),
		scalar("aeSV", itunesSharingVersion),
		scalar("aeFP", true),
		scalar("ated", 3),
		scalar("msed", true),
		container("msml", msma...),
		scalar("ceWM", ""),
		scalar("ceVO", false),
		scalar("minm", a.cfg.Server.Name),
		scalar("mslr", true),
		scalar("mstm", dacpTimeoutSeconds),
		scalar("msal", true),
		scalar("msas", 3),
		scalar("msup", true),
		scalar("mspi", true),
		scalar("msex", true),
		scalar("msbr", true),
		scalar("msqy", true),
		scalar("msix", true),
		scalar("msrs", true),
		scalar("msdc", true),
		dmap.NodeSpec{Tag: "mstc", Value: func() interface{} { return time.Now().UTC().Unix() }},
		dmap.NodeSpec{Tag: "msto", Value: func() interface{} { return tzOffsetSeconds() }},
	)
	writeNode(w, r, spec)
}

// tzOffsetSeconds is the local UTC offset reported as msto.
func tzOffsetSeconds() int64 {
	_, offset := time.Now().Zone()
	return int64(offset)
}
