package hooks

import (
	"net/url"

	"churchportal/internal/cache"
)

// Root keys, one per resource family. Invalidating a root marks every entry
// of that family stale.
var (
	MembersKey     = cache.Key{"members"}
	AttendanceKey  = cache.Key{"attendance"}
	CommitteeKey   = cache.Key{"committee"}
	ChoirsKey      = cache.Key{"choirs"}
	BlogKey        = cache.Key{"blog"}
	GalleryKey     = cache.Key{"gallery"}
	TestimoniesKey = cache.Key{"testimonies"}
	ResourcesKey   = cache.Key{"resources"}
)

// listKey is the root for an unfiltered list, else root + "list" + the
// canonical filter encoding
func listKey(root cache.Key, filter url.Values) cache.Key {
	if len(filter) == 0 {
		return root
	}
	return root.Append("list", filter.Encode())
}

// itemKey puts ids under their own segment so an id never lands on a list,
// search or stats key
func itemKey(root cache.Key, id string) cache.Key {
	return root.Append("id", id)
}

func searchKey(root cache.Key, term string) cache.Key {
	return root.Append("search", term)
}

func statsKey(root cache.Key, parts ...string) cache.Key {
	return root.Append("stats").Append(parts...)
}

func songsKey(choirID string) cache.Key {
	return itemKey(ChoirsKey, choirID).Append("songs")
}

var (
	approvedTestimoniesKey = TestimoniesKey.Append("approved")
	pendingTestimoniesKey  = TestimoniesKey.Append("pending")
)
