package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// formatExchange renders a request and its response the way curl -v prints
// them: request lines prefixed with "> ", response lines with "< ", then the
// response body.
func formatExchange(res *resty.Response) string {
	var out strings.Builder
	req := res.Request

	fmt.Fprintf(&out, "> %s %s\n", req.Method, req.URL)
	if req.RawRequest != nil {
		writeHeaders(&out, "> ", req.RawRequest.Header)
		if body := requestBody(req.RawRequest); body != "" {
			fmt.Fprintf(&out, ">\n%s\n", body)
		}
	}
	out.WriteString("\n")

	fmt.Fprintf(&out, "< %s\n", res.Status())
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final := res.RawResponse.Request.URL.String()
		if final != req.URL {
			fmt.Fprintf(&out, "< (redirected to %s)\n", final)
		}
	}
	writeHeaders(&out, "< ", res.Header())
	out.WriteString("\n")
	out.Write(res.Body())
	return out.String()
}

func writeHeaders(out *strings.Builder, prefix string, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(out, "%s%s: %s\n", prefix, k, v)
		}
	}
}

// requestBody is empty for requests without a body, resty gives GET
// requests a GetBody that returns a nil reader.
func requestBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<unreadable body: %v>", err)
	}
	if body == nil {
		return ""
	}
	defer body.Close()
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<unreadable body: %v>", err)
	}
	return string(contents)
}
