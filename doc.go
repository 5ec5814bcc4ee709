/*
Package jsonrepeater stores simple repeaters in a JSON column of a content
record instead of a table of their own, and maps them to and from the flat
shape a form layer works with.

A repository opts in by composing a Handler, built from the module's
repeater declaration and a registry of repeater definitions:

	reg := registry.New(registry.Definition{
	    Name:       "gallery",
	    Component:  "a17-block-gallery",
	    Title:      "Gallery",
	    TitleField: "caption",
	})
	decl := declaration.MustList("gallery")

	h, _ := jsonrepeater.NewHandler(decl, reg)

	fields = h.PrepareFieldsBeforeSave(fields) // before persisting
	form := h.GetFormFields(recordFields)      // when editing

Supported inside a JSON repeater: scalar inputs, browsers and medias.
Not supported: files and nested repeaters.

Modules keeps one Handler per content module and can be built from a
configuration file with FromConfig.
*/
package jsonrepeater
