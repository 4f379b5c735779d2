package cmd

import "time"

const (
	DEF_TIMEOUT = 30 * time.Second
	DEF_PORT    = 6810
)

const DESCRIPTION = `
warpjar is a command line cookie jar. It stores the cookies servers
set, sends them back on later requests, and keeps persistent cookies
in an encrypted vault in your config directory.
`

const (
	FetchDescription = `The fetch command sends a request with the cookies
stored for the url, follows redirects and saves every
cookie the responses set.

Example:
        warpjar fetch https://domain.com/login
        warpjar fetch -o page.html -H "Accept: text/html" https://domain.com/

`
	ParseDescription = `The parse command shows how a Set-Cookie header line
would be stored for a response from the given url, or
why it would be discarded. The vault is not touched.

Example:
        warpjar parse --url https://domain.com/a "sid=1; Path=/; Secure"

`
	HeaderDescription = `The header command prints the Cookie header that
would be sent with a request to the url.

Example:
        warpjar header https://domain.com/app

`
	ListDescription = `The list command displays the stored cookies, or only
those that would be sent to the given url. Values are
hidden unless --values is set.

Example:
        warpjar list
        warpjar list https://domain.com/

`
	ClearDescription = `The clear command deletes every stored cookie and
leaves an empty vault behind.

Example:
        warpjar clear

`
	ImportDescription = `The import command copies cookies from a Firefox or
Chrome profile database or a Netscape cookies.txt file
into the vault. Encrypted Chrome values are skipped.

Example:
        warpjar import --from ~/.mozilla/firefox/x.default/cookies.sqlite --domain domain.com

`
	ExportDescription = `The export command writes the stored cookies in the
Netscape cookies.txt format.

Example:
        warpjar export -o cookies.txt

`
	ServeDescription = `The serve command runs the JSON-RPC daemon on
127.0.0.1. Requests must carry the secret as a bearer
token. Endpoints: POST /jsonrpc and GET /jsonrpc/ws.

Example:
        WARPJAR_RPC_SECRET=s3cret warpjar serve --port 6810

`
)
