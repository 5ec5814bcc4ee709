/*
Package mapper moves JSON repeaters between the nested shape of a form
submission and the flattened shape a form layer renders.

Inbound, before a record is created or saved, every declared repeater found
under fields["repeaters"] is copied to its own top-level key. On save, each
item's medias are also lifted into the flat fields["medias"] map under a key
from package mediakey, so the media subsystem can attach them to the record.

Outbound, when a record is edited, a stored repeater array is flattened into
four collections keyed by repeater name:

	repeaters[name]        item metadata: id, type, title, titleField, hideTitlePrefix
	repeaterFields[name]   {name: "blocks[<id>][<field>]", value}
	repeaterBrowsers[name] "blocks[<id>][<picker>]" -> selection
	repeaterMedias[name]   "blocks[<id>][<role>]"   -> media found in fields["medias"]

An item's id is its "id" value, or its index when it has none. Media are
joined by index, not id, so items must keep their order between save and edit.

A repeater whose type cannot be resolved is left alone: the fields come back
unchanged. Missing media associations are skipped. Neither is an error.

Payloads are never modified in place.
*/
package mapper
