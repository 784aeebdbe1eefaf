package client

import (
	"context"
	"tactical-link/auth"
	"tactical-link/infrastructure/grpc/rpc"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// MessageClient is a session on the tactical-link server: every call
// carries the bearer token of one user.
type MessageClient struct {
	conn   *grpc.ClientConn
	client rpc.MessageServiceClient
	token  string
}

// Dial opens an insecure connection, extra options are appended.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	return grpc.NewClient(addr, opts...)
}

func NewMessageClient(conn *grpc.ClientConn, token string) *MessageClient {
	return &MessageClient{conn: conn, client: rpc.NewMessageServiceClient(conn), token: token}
}

// WithToken returns a client sharing the connection under another identity.
func (c *MessageClient) WithToken(token string) *MessageClient {
	return &MessageClient{conn: c.conn, client: c.client, token: token}
}

func (c *MessageClient) Close() error {
	return c.conn.Close()
}

// Provision registers userID and switches the client to its token.
func (c *MessageClient) Provision(ctx context.Context, userID string) (*rpc.TokenResponse, error) {
	resp, err := c.client.Provision(ctx, &rpc.ProvisionRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return resp, nil
}

func (c *MessageClient) Send(ctx context.Context, req *rpc.SendRequest) (*rpc.SendResponse, error) {
	return c.client.Send(c.authorized(ctx), req)
}

func (c *MessageClient) Receive(ctx context.Context) (*rpc.ReceiveResponse, error) {
	return c.client.Receive(c.authorized(ctx), &rpc.ReceiveRequest{})
}

func (c *MessageClient) Delete(ctx context.Context, messageID string) error {
	_, err := c.client.Delete(c.authorized(ctx), &rpc.DeleteRequest{MessageID: messageID})
	return err
}

func (c *MessageClient) Score(ctx context.Context, userID string) (*rpc.ScoreResponse, error) {
	return c.client.Score(c.authorized(ctx), &rpc.ScoreRequest{UserID: userID})
}

func (c *MessageClient) ListSent(ctx context.Context) (*rpc.ListSentResponse, error) {
	return c.client.ListSent(c.authorized(ctx), &rpc.ListSentRequest{})
}

// Conversation returns the live history between the caller and peerID.
func (c *MessageClient) Conversation(ctx context.Context, peerID string) (*rpc.ConversationResponse, error) {
	return c.client.Conversation(c.authorized(ctx), &rpc.ConversationRequest{PeerID: peerID})
}

func (c *MessageClient) ListThreats(ctx context.Context, limit int) (*rpc.ThreatsResponse, error) {
	return c.client.ListThreats(c.authorized(ctx), &rpc.ListThreatsRequest{Limit: limit})
}

func (c *MessageClient) SearchThreats(ctx context.Context, req *rpc.SearchThreatsRequest) (*rpc.ThreatsResponse, error) {
	return c.client.SearchThreats(c.authorized(ctx), req)
}

func (c *MessageClient) authorized(ctx context.Context) context.Context {
	if c.token == "" {
		return ctx
	}
	return auth.BearerToken(ctx, c.token)
}
