package genesis

// hrmpChannelFields is the tuple order of a pre-opened HRMP channel.
var hrmpChannelFields = []string{"sender", "recipient", "maxCapacity", "maxMessageSize"}

// NormalizeHRMPChannel converts a channel written as an object with sender,
// recipient, maxCapacity and maxMessageSize members into the
// [sender, recipient, maxCapacity, maxMessageSize] tuple. Tuples and any
// other value are returned unchanged, so the conversion is idempotent.
// Missing object members become null.
func NormalizeHRMPChannel(ch *Node) *Node {
	if !ch.IsObject() {
		return ch
	}
	tuple := NewArray()
	for _, f := range hrmpChannelFields {
		v := ch.Get(f)
		if v == nil {
			v = NewNull()
		}
		tuple.Append(v)
	}
	return tuple
}

// NormalizeHRMP rewrites overrides.hrmp.preopenHrmpChannels in place so every
// entry is in tuple form. Overrides without HRMP channels are left alone.
func NormalizeHRMP(overrides *Node) {
	hrmp := Lookup(overrides, "hrmp")
	channels := hrmp.Get("preopenHrmpChannels")
	if !channels.IsArray() {
		return
	}
	for i, ch := range channels.items {
		channels.items[i] = NormalizeHRMPChannel(ch)
	}
}
