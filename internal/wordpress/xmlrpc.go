package wordpress

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lta/newsbridge/internal/models"
)

// XMLRPCClient is the fallback transport for hosts that block wp-json.
// It speaks the legacy wp.getPosts method against xmlrpc.php.
type XMLRPCClient struct {
	cfg     Config
	rest    *resty.Client
	timeout time.Duration
}

// NewXMLRPCClient builds the fallback client for the given site.
func NewXMLRPCClient(cfg Config, timeout time.Duration) (*XMLRPCClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &XMLRPCClient{
		cfg:     cfg,
		rest:    resty.New().SetBaseURL(trimSlash(cfg.SiteURL)),
		timeout: timeout,
	}, nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// methodCall is the request document for wp.getPosts:
// params are [blog_id, username, password, {number, post_status}].
type methodCall struct {
	XMLName    xml.Name   `xml:"methodCall"`
	MethodName string     `xml:"methodName"`
	Params     []xrpParam `xml:"params>param"`
}

type xrpParam struct {
	Value xrpValue `xml:"value"`
}

// xrpValue is a recursive XML-RPC value. Exactly one field is set.
type xrpValue struct {
	String  *string    `xml:"string,omitempty"`
	Int     *int       `xml:"int,omitempty"`
	I4      *int       `xml:"i4,omitempty"`
	Boolean *string    `xml:"boolean,omitempty"`
	Array   *xrpArray  `xml:"array,omitempty"`
	Struct  *xrpStruct `xml:"struct,omitempty"`
	CharData string    `xml:",chardata"`
}

type xrpArray struct {
	Values []xrpValue `xml:"data>value"`
}

type xrpStruct struct {
	Members []xrpMember `xml:"member"`
}

type xrpMember struct {
	Name  string   `xml:"name"`
	Value xrpValue `xml:"value"`
}

type methodResponse struct {
	XMLName xml.Name   `xml:"methodResponse"`
	Params  []xrpParam `xml:"params>param"`
	Fault   *struct {
		Value xrpValue `xml:"value"`
	} `xml:"fault"`
}

// scalar returns the scalar content of a value regardless of whether it
// was typed as <string>, <int> or left as bare character data.
func (v xrpValue) scalar() string {
	if v.String != nil {
		return *v.String
	}
	if v.Int != nil {
		return strconv.Itoa(*v.Int)
	}
	if v.I4 != nil {
		return strconv.Itoa(*v.I4)
	}
	return trimXMLSpace(v.CharData)
}

func trimXMLSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isXMLSpace(s[start]) {
		start++
	}
	for end > start && isXMLSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isXMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// member looks a named member up in a struct value.
func (v xrpValue) member(name string) (xrpValue, bool) {
	if v.Struct == nil {
		return xrpValue{}, false
	}
	for _, m := range v.Struct.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return xrpValue{}, false
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

// ListPosts fetches posts via wp.getPosts and converts them into the REST
// post shape so normalization downstream is transport-agnostic. The
// mapped member set is post_id, post_title, post_content and post_status.
func (c *XMLRPCClient) ListPosts(ctx context.Context, limit int) ([]models.WPPost, error) {
	if limit <= 0 {
		limit = 50
	}

	call := methodCall{
		MethodName: "wp.getPosts",
		Params: []xrpParam{
			{Value: xrpValue{Int: intPtr(1)}},
			{Value: xrpValue{String: stringPtr(c.cfg.Username)}},
			{Value: xrpValue{String: stringPtr(c.cfg.AppPassword)}},
			{Value: xrpValue{Struct: &xrpStruct{Members: []xrpMember{
				{Name: "number", Value: xrpValue{Int: intPtr(limit)}},
				{Name: "post_status", Value: xrpValue{String: stringPtr("publish")}},
			}}}},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(call); err != nil {
		return nil, fmt.Errorf("encoding xml-rpc request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/xml").
		SetBody(buf.Bytes()).
		Post("/xmlrpc.php")
	if err != nil {
		return nil, fmt.Errorf("calling xmlrpc.php: %w", err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		return nil, ErrAuthentication
	case code < 200 || code >= 300:
		return nil, fmt.Errorf("xmlrpc.php returned status %d", code)
	}

	var mr methodResponse
	if err := xml.Unmarshal(resp.Body(), &mr); err != nil {
		return nil, fmt.Errorf("parsing xml-rpc response: %w", err)
	}
	if mr.Fault != nil {
		code, msg := faultDetails(mr.Fault.Value)
		if code == 403 {
			return nil, ErrAuthentication
		}
		return nil, fmt.Errorf("xml-rpc fault %d: %s", code, msg)
	}
	if len(mr.Params) == 0 || mr.Params[0].Value.Array == nil {
		return nil, fmt.Errorf("xml-rpc response missing post array")
	}

	values := mr.Params[0].Value.Array.Values
	posts := make([]models.WPPost, 0, len(values))
	for _, v := range values {
		post, ok := postFromStruct(v)
		if !ok {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// faultDetails extracts faultCode and faultString from a fault struct.
// WordPress reports bad credentials as fault 403.
func faultDetails(v xrpValue) (int, string) {
	code := 0
	if cv, ok := v.member("faultCode"); ok {
		code, _ = strconv.Atoi(cv.scalar())
	}
	msg := ""
	if mv, ok := v.member("faultString"); ok {
		msg = mv.scalar()
	}
	return code, msg
}

func postFromStruct(v xrpValue) (models.WPPost, bool) {
	idVal, ok := v.member("post_id")
	if !ok {
		return models.WPPost{}, false
	}
	id, err := strconv.Atoi(idVal.scalar())
	if err != nil || id == 0 {
		return models.WPPost{}, false
	}

	post := models.WPPost{ID: id}
	if tv, ok := v.member("post_title"); ok {
		post.Title.Rendered = tv.scalar()
	}
	if cv, ok := v.member("post_content"); ok {
		post.Content.Rendered = cv.scalar()
	}
	if sv, ok := v.member("post_status"); ok {
		post.Status = sv.scalar()
	}
	return post, true
}
