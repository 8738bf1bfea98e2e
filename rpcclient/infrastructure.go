// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/decred/dcrd/dcrjson/v4"
	"github.com/decred/go-socks/socks"
	"github.com/gorilla/websocket"
)

var (
	// ErrInvalidAuth is an error to describe the condition where the client
	// is either unable to authenticate or the specified endpoint is
	// incorrect.
	ErrInvalidAuth = errors.New("authentication failure")

	// ErrClientDisconnect is an error to describe the condition where the
	// client has been disconnected from the RPC server.
	ErrClientDisconnect = errors.New("the client has been disconnected")

	// ErrClientShutdown is an error to describe the condition where the
	// client is either already shutdown, or in the process of shutting
	// down.  Any outstanding futures when a client shutdown occurs will
	// return this error as will any new requests.
	ErrClientShutdown = errors.New("the client has been shutdown")
)

const (
	// sendBufferSize is the number of elements the websocket send channel
	// can queue before blocking.
	sendBufferSize = 50
)

// ConnConfig describes the connection configuration parameters for the client.
type ConnConfig struct {
	// Host is the IP address and port of the RPC server you want to connect
	// to.
	Host string

	// Endpoint is the websocket endpoint on the RPC server.  This is
	// typically "ws".
	Endpoint string

	// User is the username to use to authenticate to the RPC server.
	User string

	// Pass is the passphrase to use to authenticate to the RPC server.
	Pass string

	// DisableTLS specifies whether transport layer security should be
	// disabled.  It is recommended to always use TLS if the RPC server
	// supports it as otherwise your username and password is sent across
	// the wire in cleartext.
	DisableTLS bool

	// Certificates are the bytes for a PEM-encoded certificate chain used
	// for the TLS connection.  It has no effect if the DisableTLS parameter
	// is true.
	Certificates []byte

	// Proxy specifies to connect through a SOCKS 5 proxy server.  It may
	// be an empty string if a proxy is not required.
	Proxy string

	// ProxyUser is an optional username to use for the proxy server if it
	// requires authentication.  It has no effect if the Proxy parameter
	// is not set.
	ProxyUser string

	// ProxyPass is an optional password to use for the proxy server if it
	// requires authentication.  It has no effect if the Proxy parameter
	// is not set.
	ProxyPass string
}

// response is the raw bytes of a JSON-RPC result, or the error if the response
// error object was non-null.
type response struct {
	result []byte
	err    error
}

// cmdRes houses the context of a request along with the channel its response
// is delivered on.
type cmdRes struct {
	ctx context.Context
	c   chan *response
}

// jsonRequest holds information about a json request that is used to properly
// detect, interpret, and deliver a reply to it.
type jsonRequest struct {
	id             uint64
	method         string
	marshalledJSON []byte
	responseChan   chan *response
}

// rawResponse is a partially-unmarshaled JSON-RPC response.  For this to be
// valid (according to JSON-RPC 1.0 spec), ID may not be nil.
type rawResponse struct {
	Result json.RawMessage   `json:"result"`
	Error  *dcrjson.RPCError `json:"error"`
	ID     *uint64           `json:"id"`
}

// result checks whether the unmarshaled response contains a non-nil error,
// returning an unmarshaled dcrjson.RPCError (or an unmarshaling error) if so.
// If the response is not an error, the raw bytes of the request are
// returned for further unmarshaling into specific result types.
func (r rawResponse) result() (result []byte, err error) {
	if r.Error != nil {
		return nil, r.Error
	}
	return r.Result, nil
}

// Client represents a JSON-RPC client which talks to a ledger
// node over a websocket connection.  It is safe for concurrent use.
type Client struct {
	id uint64 // atomic, so must stay 64-bit aligned

	config *ConnConfig
	wsConn *websocket.Conn

	// Track command and their response channels by ID.
	requestLock sync.Mutex
	requestMap  map[uint64]*jsonRequest

	sendChan     chan []byte
	disconnect   chan struct{}
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NextID returns the next id to be used when sending a JSON-RPC message.  This
// ID allows responses to be associated with particular requests per the
// JSON-RPC specification.  Typically the consumer of the client does not need
// to call this function, however, if a custom request is being created and
// used this function should be used to ensure the ID is unique amongst all
// requests being made.
func (c *Client) NextID() uint64 {
	return atomic.AddUint64(&c.id, 1)
}

// addRequest associates the passed jsonRequest with its id.  This allows the
// response from the remote server to be unmarshalled to the appropriate type
// and sent to the specified channel when it is received.
//
// This function is safe for concurrent access.
func (c *Client) addRequest(jReq *jsonRequest) error {
	c.requestLock.Lock()
	defer c.requestLock.Unlock()

	select {
	case <-c.shutdown:
		return ErrClientShutdown
	case <-c.disconnect:
		return ErrClientDisconnect
	default:
	}

	c.requestMap[jReq.id] = jReq
	return nil
}

// removeRequest returns and removes the jsonRequest which contains the
// response channel and original method associated with the passed id or nil
// if there is no association.
//
// This function is safe for concurrent access.
func (c *Client) removeRequest(id uint64) *jsonRequest {
	c.requestLock.Lock()
	defer c.requestLock.Unlock()

	jReq := c.requestMap[id]
	delete(c.requestMap, id)
	return jReq
}

// failRequests delivers the error to every outstanding request and clears the
// request map.
//
// This function is safe for concurrent access.
func (c *Client) failRequests(err error) {
	c.requestLock.Lock()
	defer c.requestLock.Unlock()

	for id, jReq := range c.requestMap {
		jReq.responseChan <- &response{err: err}
		delete(c.requestMap, id)
	}
}

// handleMessage is the main handler for incoming responses.
func (c *Client) handleMessage(msg []byte) {
	var in rawResponse
	if err := json.Unmarshal(msg, &in); err != nil {
		log.Warnf("Remote server sent invalid message: %v", err)
		return
	}
	if in.ID == nil {
		log.Warnf("Remote server sent a message without an id")
		return
	}

	request := c.removeRequest(*in.ID)
	if request == nil || request.responseChan == nil {
		log.Warnf("Received unexpected reply: %s (id %d)", in.Result, *in.ID)
		return
	}

	result, err := in.result()
	request.responseChan <- &response{result: result, err: err}
}

// shouldLogReadError returns whether or not the passed error, which is
// expected to have come from reading from the websocket connection in
// wsInHandler, should be logged.
func shouldLogReadError(err error) bool {
	// No logging when the connection is being forcibly disconnected.
	if errors.Is(err, net.ErrClosed) {
		return false
	}

	// No logging when the connection has been disconnected.
	var closeErr *websocket.CloseError
	return !errors.As(err, &closeErr)
}

// wsInHandler handles all incoming messages for the websocket connection.  It
// must be run as a goroutine.
func (c *Client) wsInHandler() {
	defer c.wg.Done()

	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			if shouldLogReadError(err) && !c.isShutdown() {
				log.Errorf("Websocket receive error from %s: %v",
					c.config.Host, err)
			}
			break
		}
		c.handleMessage(msg)
	}

	// Ensure the connection is closed and outstanding requests fail.
	c.doDisconnect()
	log.Tracef("RPC client input handler done for %s", c.config.Host)
}

// wsOutHandler handles all outgoing messages for the websocket connection.  It
// uses a buffered channel to serialize output messages while allowing the
// sender to continue running asynchronously.  It must be run as a goroutine.
func (c *Client) wsOutHandler() {
	defer c.wg.Done()

out:
	for {
		select {
		case msg := <-c.sendChan:
			err := c.wsConn.WriteMessage(websocket.TextMessage, msg)
			if err != nil {
				c.doDisconnect()
				break out
			}

		case <-c.disconnect:
			break out
		}
	}
	log.Tracef("RPC client output handler done for %s", c.config.Host)
}

// doDisconnect disconnects the websocket associated with the client and fails
// every outstanding request.  It is safe to call multiple times.
func (c *Client) doDisconnect() {
	c.requestLock.Lock()
	select {
	case <-c.disconnect:
		c.requestLock.Unlock()
		return
	default:
	}
	close(c.disconnect)
	c.requestLock.Unlock()

	log.Tracef("Disconnecting RPC client %s", c.config.Host)
	c.wsConn.Close()

	err := ErrClientDisconnect
	if c.isShutdown() {
		err = ErrClientShutdown
	}
	c.failRequests(err)
}

// isShutdown returns whether the client was shut down.
func (c *Client) isShutdown() bool {
	select {
	case <-c.shutdown:
		return true
	default:
		return false
	}
}

// Disconnected returns whether or not the server is disconnected.
func (c *Client) Disconnected() bool {
	select {
	case <-c.disconnect:
		return true
	default:
		return false
	}
}

// sendRequest sends the passed json request to the associated server using
// the provided response channel for the reply.
func (c *Client) sendRequest(ctx context.Context, jReq *jsonRequest) {
	if err := c.addRequest(jReq); err != nil {
		jReq.responseChan <- &response{err: err}
		return
	}
	log.Tracef("Sending command [%s] with id %d", jReq.method, jReq.id)

	select {
	case c.sendChan <- jReq.marshalledJSON:
	case <-ctx.Done():
		// A reply or a disconnect may have already claimed the request.
		if c.removeRequest(jReq.id) != nil {
			jReq.responseChan <- &response{err: ctx.Err()}
		}
	case <-c.disconnect:
		// Outstanding requests are failed by the disconnect itself.
	}
}

// sendCmd sends the passed command to the associated server and returns a
// response channel on which the reply will be delivered at some point in the
// future.  It handles both websocket and HTTP POST mode depending on the
// configuration of the client.
func (c *Client) sendCmd(ctx context.Context, method string, cmd interface{}) *cmdRes {
	// Marshal the command.
	id := c.NextID()
	marshalledJSON, err := dcrjson.MarshalCmd("1.0", id, cmd)
	if err != nil {
		return newFutureError(ctx, err)
	}

	// Generate the request and send it along with a channel to respond on.
	responseChan := make(chan *response, 1)
	jReq := &jsonRequest{
		id:             id,
		method:         method,
		marshalledJSON: marshalledJSON,
		responseChan:   responseChan,
	}
	c.sendRequest(ctx, jReq)

	return &cmdRes{ctx: ctx, c: responseChan}
}

// newFutureError returns a new future result that will deliver the passed
// error when Receive is called.
func newFutureError(ctx context.Context, err error) *cmdRes {
	responseChan := make(chan *response, 1)
	responseChan <- &response{err: err}
	return &cmdRes{ctx: ctx, c: responseChan}
}

// receiveFuture receives from the passed futureResult channel to extract a
// reply or any errors.  The examined errors include an error in the
// futureResult and the error in the reply from the server.  This will block
// until the result is available on the passed channel or the context is done.
func receiveFuture(ctx context.Context, f chan *response) ([]byte, error) {
	select {
	case r := <-f:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown shuts down the client by disconnecting any connections associated
// with the client and causing any outstanding requests to return
// ErrClientShutdown.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(func() {
		log.Tracef("Shutting down RPC client %s", c.config.Host)
		close(c.shutdown)
		c.doDisconnect()
	})
}

// WaitForShutdown blocks until the client goroutines are stopped and the
// connection is closed.
func (c *Client) WaitForShutdown() {
	c.wg.Wait()
}

// dial opens a websocket connection using the passed connection configuration
// details.
func dial(ctx context.Context, config *ConnConfig) (*websocket.Conn, error) {
	// Setup TLS if not disabled.
	var tlsConfig *tls.Config
	var scheme = "ws"
	if !config.DisableTLS {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		if len(config.Certificates) > 0 {
			pool := x509.NewCertPool()
			pool.AppendCertsFromPEM(config.Certificates)
			tlsConfig.RootCAs = pool
		}
		scheme = "wss"
	}

	// Create a websocket dialer that will be used to make the connection.
	// It is modified by the proxy setting below as needed.
	dialer := websocket.Dialer{TLSClientConfig: tlsConfig}

	// Setup the proxy if one is configured.
	if config.Proxy != "" {
		proxy := &socks.Proxy{
			Addr:     config.Proxy,
			Username: config.ProxyUser,
			Password: config.ProxyPass,
		}
		dialer.NetDial = proxy.Dial
	}

	// The RPC server requires basic authorization, so create a custom
	// request header with the Authorization header set.
	login := config.User + ":" + config.Pass
	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
	requestHeader := make(http.Header)
	requestHeader.Add("Authorization", auth)

	// Dial the connection.
	url := fmt.Sprintf("%s://%s/%s", scheme, config.Host, config.Endpoint)
	wsConn, resp, err := dialer.DialContext(ctx, url, requestHeader)
	if err != nil {
		if !errors.Is(err, websocket.ErrBadHandshake) || resp == nil {
			return nil, err
		}

		// Detect HTTP authentication error status codes.
		if resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden {
			return nil, ErrInvalidAuth
		}

		// The connection was authenticated and the status response was
		// ok, but the websocket handshake still failed, so the endpoint
		// is invalid in some way.
		if resp.StatusCode == http.StatusOK {
			return nil, errors.New("invalid endpoint")
		}

		// Return the status text from the server if none of the special
		// cases above apply.
		return nil, errors.New(resp.Status)
	}
	return wsConn, nil
}

// New creates a new RPC client based on the provided connection configuration
// details and connects to the server.
func New(ctx context.Context, config *ConnConfig) (*Client, error) {
	wsConn, err := dial(ctx, config)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:     config,
		wsConn:     wsConn,
		requestMap: make(map[uint64]*jsonRequest),
		sendChan:   make(chan []byte, sendBufferSize),
		disconnect: make(chan struct{}),
		shutdown:   make(chan struct{}),
	}
	log.Infof("Established connection to RPC server %s", config.Host)

	client.wg.Add(2)
	go client.wsInHandler()
	go client.wsOutHandler()
	return client, nil
}
