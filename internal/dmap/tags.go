// Package dmap implements the DMAP/DAAP tagged-binary wire format: a typed,
// nested, length-prefixed container format used by DACP remotes and the
// servers that talk to them.
package dmap

// Kind identifies how a tag's value is encoded on the wire.
type Kind int

const (
	KindUByte Kind = iota
	KindByte
	KindUShort
	KindShort
	KindUInt
	KindInt
	KindULong
	KindLong
	KindMultiInt
	KindMultiUInt
	KindDatetime
	KindVersion
	KindString
	KindBinary
	KindContainer
)

// TagInfo describes a registered tag: a human-readable name (used for
// debugging/pretty-printing) and the wire kind of its value.
type TagInfo struct {
	Name string
	Kind Kind
}

// Tag is a 4-character DMAP/DAAP tag identifier, e.g. "minm" or "mlit".
type Tag string

// tags is the static tag registry: 4-char tag -> (name, kind). It only needs
// to cover the tags this server's own handlers and wire replies read or
// write; any tag absent from this table decodes as KindBinary, keeping
// unknown tags readable as raw bytes.
var tags = map[Tag]TagInfo{
	// Status / server-info
	"mstt": {"dmap.status", KindUInt},
	"msrv": {"dmap.serverinforesponse", KindContainer},
	"mpro": {"dmap.protocolversion", KindVersion},
	"apro": {"daap.protocolversion", KindVersion},
	"aeSV": {"com.apple.itunes.music-sharing-version", KindVersion},
	"aeFP": {"com.apple.itunes.req-fplay", KindUByte},
	"ated": {"daap.supportsextradata", KindUByte},
	"msed": {"dmap.supportsedit", KindUByte},
	"msml": {"dmap.speakermachineaddress", KindContainer},
	"msma": {"dmap.machineaddress", KindULong},
	"ceWM": {"com.apple.itunes.initial-volume", KindString},
	"ceVO": {"com.apple.itunes.has-video", KindUByte},
	"minm": {"dmap.itemname", KindString},
	"mslr": {"dmap.loginrequired", KindUByte},
	"mstm": {"dmap.timeoutinterval", KindUInt},
	"msal": {"dmap.supportsautologout", KindUByte},
	"msas": {"dmap.authenticationschemes", KindUByte},
	"msup": {"dmap.supportsupdate", KindUByte},
	"mspi": {"dmap.supportspersistentids", KindUByte},
	"msex": {"dmap.supportsextensions", KindUByte},
	"msbr": {"dmap.supportsbrowse", KindUByte},
	"msqy": {"dmap.supportsquery", KindUByte},
	"msix": {"dmap.supportsindex", KindUByte},
	"msrs": {"dmap.supportsresolve", KindUByte},
	"msdc": {"dmap.databasescount", KindUByte},
	"mstc": {"dmap.utctime", KindDatetime},
	"msto": {"dmap.utcoffset", KindInt},

	// Login / update
	"mlog": {"dmap.loginresponse", KindContainer},
	"mlid": {"dmap.sessionid", KindUInt},
	"mupd": {"dmap.updateresponse", KindContainer},
	"musr": {"dmap.serverrevision", KindUInt},

	// Databases / containers / items (common listing envelope)
	"avdb": {"daap.serverdatabases", KindContainer},
	"muty": {"dmap.updatetype", KindUByte},
	"mtco": {"dmap.specifiedtotalcount", KindUInt},
	"mrco": {"dmap.returnedcount", KindUInt},
	"mlcl": {"dmap.listing", KindContainer},
	"mlit": {"dmap.listingitem", KindContainer},
	"miid": {"dmap.itemid", KindUInt},
	"mper": {"dmap.persistentid", KindULong},
	"mimc": {"dmap.itemcount", KindUInt},
	"mctc": {"dmap.containercount", KindUInt},
	"meds": {"dmap.editcommandssupported", KindUByte},
	"aply": {"daap.databaseplaylists", KindContainer},
	"apso": {"daap.playlistsongs", KindContainer},
	"medc": {"dmap.editcommand", KindContainer},

	// Groups / browse
	"agal": {"daap.databasesonggroups", KindContainer},
	"abro": {"daap.databasebrowse", KindContainer},
	"abar": {"daap.browseartistlisting", KindContainer},
	"mshl": {"dmap.listingsortheaders", KindContainer},
	"mshc": {"dmap.sortheaderchar", KindUByte},
	"mshi": {"dmap.sortheaderindex", KindUInt},
	"mshn": {"dmap.sortheadernumber", KindUInt},

	// Control interface / speakers
	"caci": {"dacp.controlint", KindContainer},
	"cmik": {"dacp.supportskillall", KindUByte},
	"cmsp": {"dacp.supportsshuffle", KindUByte},
	"cmsv": {"dacp.supportsvolume", KindUByte},
	"cass": {"dacp.supportsskip", KindUByte},
	"casu": {"dacp.supportsseek", KindUByte},
	"ceSG": {"com.apple.itunes.ceSG", KindUByte},
	"cacr": {"dacp.controlresponse", KindContainer},
	"casp": {"dacp.speakers", KindContainer},
	"mdcl": {"dmap.dictionary", KindContainer},
	"caia": {"dacp.isactive", KindUByte},

	// Property get/set & status
	"cmgt": {"dacp.getpropertyresponse", KindContainer},
	"cmst": {"dacp.playstatus", KindContainer},
	"cmsr": {"dacp.serverrevision", KindUInt},
	"caps": {"dacp.playerstate", KindUByte},
	"cash": {"dacp.shufflestate", KindUByte},
	"carp": {"dacp.repeatstate", KindUByte},
	"cavc": {"dacp.volumecontrollable", KindUByte},
	"caas": {"dacp.availableshufflestates", KindUInt},
	"caar": {"dacp.availablerepeatstates", KindUInt},
	"canp": {"dacp.nowplaying", KindMultiUInt},
	"cann": {"dacp.nowplayingtrack", KindString},
	"cana": {"dacp.nowplayingartist", KindString},
	"canl": {"dacp.nowplayingalbum", KindString},
	"cang": {"dacp.nowplayinggenre", KindString},
	"asai": {"daap.songalbumid", KindULong},
	"cmmk": {"dacp.mediakind", KindUByte},
	"ceGS": {"com.apple.itunes.genius-selectable", KindUByte},
	"cant": {"dacp.remainingtime", KindUInt},
	"cast": {"dacp.tracklength", KindUInt},

	// Per-entity song/album/artist properties
	"asal": {"daap.songalbum", KindString},
	"asar": {"daap.songartist", KindString},
	"asri": {"daap.songartistid", KindULong},
	"asaa": {"daap.songalbumartist", KindString},
	"asdt": {"daap.songdescription", KindString},
	"asgn": {"daap.songgenre", KindString},
	"astm": {"daap.songtime", KindUInt},
	"ascm": {"daap.songcomposer", KindString},
	"asyr": {"daap.songyear", KindString},
	"astn": {"daap.songtracknumber", KindUShort},
	"asky": {"daap.itemkind", KindUByte},
	"asvc": {"daap.hasvideo", KindUByte},
	"mpco": {"dmap.parentcontainerid", KindUInt},
	"aeBP": {"daap.baseplaylist", KindUByte},
	"cmvo": {"dmcp.volume", KindUByte},

	// Pairing handshake response
	"cmpa": {"dacp.pairinganswer", KindContainer},
	"cmpg": {"dacp.pairingguid", KindULong},
	"cmnm": {"dacp.devicename", KindString},
	"cmty": {"dacp.devicetype", KindString},
}

// Lookup returns the registered info for tag, or (binary info, false) if the
// tag is unknown. Unknown tags degrade gracefully to KindBinary on decode.
func Lookup(tag Tag) (TagInfo, bool) {
	info, ok := tags[tag]
	if !ok {
		return TagInfo{Name: string(tag), Kind: KindBinary}, false
	}
	return info, true
}

// PropertyTag maps a dotted DACP/DAAP property name to its wire tag.
type PropertyTag struct {
	Tag  Tag
	Kind Kind
}

// PROPERTIES maps the dotted property names handlers exchange with callers
// (e.g. "dmap.itemname") to the tag/kind used to encode them on the wire.
var PROPERTIES = map[string]PropertyTag{
	"dmap.itemname":                 {"minm", KindString},
	"dmap.itemid":                   {"miid", KindUInt},
	"dmap.persistentid":             {"mper", KindULong},
	"dmap.containeritemid":          {"miid", KindUInt},
	"dmap.itemcount":                {"mimc", KindUInt},
	"dmap.itemkind":                 {"asky", KindUByte},
	"dmap.parentcontainerid":        {"mpco", KindUInt},
	"dmap.editcommandssupported":    {"meds", KindUByte},
	"daap.baseplaylist":             {"aeBP", KindUByte},
	"daap.songalbum":                {"asal", KindString},
	"daap.songalbumid":              {"asai", KindULong},
	"daap.songalbumartist":          {"asaa", KindString},
	"daap.songartist":               {"asar", KindString},
	"daap.songartistid":             {"asri", KindULong},
	"daap.songcomposer":             {"ascm", KindString},
	"daap.songyear":                 {"asyr", KindString},
	"daap.songgenre":                {"asgn", KindString},
	"daap.songtime":                 {"astm", KindUInt},
	"daap.songcontentdescription":   {"asdt", KindString},
	"com.apple.itunes.has-video":    {"asvc", KindUByte},
	"dacp.playerstate":              {"caps", KindUByte},
	"dacp.shufflestate":             {"cash", KindUByte},
	"dacp.repeatstate":              {"carp", KindUByte},
	"dacp.availablerepeatstates":    {"caar", KindUInt},
	"dacp.availableshufflestates":   {"caas", KindUInt},
	"dacp.volumecontrollable":       {"cavc", KindUByte},
	"dmcp.volume":                   {"cmvo", KindUByte},
	"dacp.nowplaying":               {"canp", KindMultiUInt},
	"dacp.playingtime":              {"cant", KindUInt},
}
