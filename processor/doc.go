/*
Package processor implements the repeatermap command line tool.

It runs the repeater handlers configured for a content module over JSON
payload files, and over records kept in DynamoDB:

	# lift repeaters and their medias from a form submission
	repeatermap --config repeaters.yaml --module articles normalize submit.json

	# flatten a stored record for the edit form
	repeatermap --module articles flatten --medias medias.json record.json

	# decode an internal media role key
	repeatermap decode-key 'json-repeater[7:gallery][1][cover]'

	# the same flow against the configured table
	repeatermap --module articles record put article-1 submit.json
	repeatermap --module articles record form article-1

Configuration is read from the --config file, or from the file named by
JSONREPEATER_CONFIG. A .env file in the working directory is loaded first and
AWS_REGION, AWS_ACCESS_KEY, AWS_SECRET_KEY, AWS_DDB_TABLE and
AWS_DDB_ENDPOINT override the dynamodb section.

Payloads are read from the named file, or from stdin when the file is
omitted or "-". Results are written to stdout as indented JSON.
*/
package processor
