package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "tactical.v1.MessageService"

const (
	MessageService_Provision_FullMethodName     = "/" + ServiceName + "/Provision"
	MessageService_Send_FullMethodName          = "/" + ServiceName + "/Send"
	MessageService_Receive_FullMethodName       = "/" + ServiceName + "/Receive"
	MessageService_Delete_FullMethodName        = "/" + ServiceName + "/Delete"
	MessageService_Score_FullMethodName         = "/" + ServiceName + "/Score"
	MessageService_ListSent_FullMethodName      = "/" + ServiceName + "/ListSent"
	MessageService_Conversation_FullMethodName  = "/" + ServiceName + "/Conversation"
	MessageService_ListThreats_FullMethodName   = "/" + ServiceName + "/ListThreats"
	MessageService_SearchThreats_FullMethodName = "/" + ServiceName + "/SearchThreats"
)

// PublicMethods can be called without a bearer token.
var PublicMethods = []string{MessageService_Provision_FullMethodName}

type MessageServiceServer interface {
	Provision(context.Context, *ProvisionRequest) (*TokenResponse, error)
	Send(context.Context, *SendRequest) (*SendResponse, error)
	Receive(context.Context, *ReceiveRequest) (*ReceiveResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
	Score(context.Context, *ScoreRequest) (*ScoreResponse, error)
	ListSent(context.Context, *ListSentRequest) (*ListSentResponse, error)
	Conversation(context.Context, *ConversationRequest) (*ConversationResponse, error)
	ListThreats(context.Context, *ListThreatsRequest) (*ThreatsResponse, error)
	SearchThreats(context.Context, *SearchThreatsRequest) (*ThreatsResponse, error)
}

func RegisterMessageServiceServer(s grpc.ServiceRegistrar, srv MessageServiceServer) {
	s.RegisterService(&MessageService_ServiceDesc, srv)
}

var MessageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MessageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Provision", Handler: unary(MessageService_Provision_FullMethodName, MessageServiceServer.Provision)},
		{MethodName: "Send", Handler: unary(MessageService_Send_FullMethodName, MessageServiceServer.Send)},
		{MethodName: "Receive", Handler: unary(MessageService_Receive_FullMethodName, MessageServiceServer.Receive)},
		{MethodName: "Delete", Handler: unary(MessageService_Delete_FullMethodName, MessageServiceServer.Delete)},
		{MethodName: "Score", Handler: unary(MessageService_Score_FullMethodName, MessageServiceServer.Score)},
		{MethodName: "ListSent", Handler: unary(MessageService_ListSent_FullMethodName, MessageServiceServer.ListSent)},
		{MethodName: "Conversation", Handler: unary(MessageService_Conversation_FullMethodName, MessageServiceServer.Conversation)},
		{MethodName: "ListThreats", Handler: unary(MessageService_ListThreats_FullMethodName, MessageServiceServer.ListThreats)},
		{MethodName: "SearchThreats", Handler: unary(MessageService_SearchThreats_FullMethodName, MessageServiceServer.SearchThreats)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tactical/v1/message_service",
}

// unary builds the handler of one method, running the server interceptor chain.
func unary[Req, Resp any](fullMethod string, call func(MessageServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MessageServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(MessageServiceServer), ctx, req.(*Req))
		})
	}
}

type MessageServiceClient interface {
	Provision(ctx context.Context, in *ProvisionRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error)
	Receive(ctx context.Context, in *ReceiveRequest, opts ...grpc.CallOption) (*ReceiveResponse, error)
	Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error)
	Score(ctx context.Context, in *ScoreRequest, opts ...grpc.CallOption) (*ScoreResponse, error)
	ListSent(ctx context.Context, in *ListSentRequest, opts ...grpc.CallOption) (*ListSentResponse, error)
	Conversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	ListThreats(ctx context.Context, in *ListThreatsRequest, opts ...grpc.CallOption) (*ThreatsResponse, error)
	SearchThreats(ctx context.Context, in *SearchThreatsRequest, opts ...grpc.CallOption) (*ThreatsResponse, error)
}

type messageServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMessageServiceClient(cc grpc.ClientConnInterface) MessageServiceClient {
	return &messageServiceClient{cc: cc}
}

func (c *messageServiceClient) Provision(ctx context.Context, in *ProvisionRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MessageService_Provision_FullMethodName, in, opts)
}

func (c *messageServiceClient) Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error) {
	return invoke[SendResponse](ctx, c.cc, MessageService_Send_FullMethodName, in, opts)
}

func (c *messageServiceClient) Receive(ctx context.Context, in *ReceiveRequest, opts ...grpc.CallOption) (*ReceiveResponse, error) {
	return invoke[ReceiveResponse](ctx, c.cc, MessageService_Receive_FullMethodName, in, opts)
}

func (c *messageServiceClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, MessageService_Delete_FullMethodName, in, opts)
}

func (c *messageServiceClient) Score(ctx context.Context, in *ScoreRequest, opts ...grpc.CallOption) (*ScoreResponse, error) {
	return invoke[ScoreResponse](ctx, c.cc, MessageService_Score_FullMethodName, in, opts)
}

func (c *messageServiceClient) ListSent(ctx context.Context, in *ListSentRequest, opts ...grpc.CallOption) (*ListSentResponse, error) {
	return invoke[ListSentResponse](ctx, c.cc, MessageService_ListSent_FullMethodName, in, opts)
}

func (c *messageServiceClient) Conversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, MessageService_Conversation_FullMethodName, in, opts)
}

func (c *messageServiceClient) ListThreats(ctx context.Context, in *ListThreatsRequest, opts ...grpc.CallOption) (*ThreatsResponse, error) {
	return invoke[ThreatsResponse](ctx, c.cc, MessageService_ListThreats_FullMethodName, in, opts)
}

func (c *messageServiceClient) SearchThreats(ctx context.Context, in *SearchThreatsRequest, opts ...grpc.CallOption) (*ThreatsResponse, error) {
	return invoke[ThreatsResponse](ctx, c.cc, MessageService_SearchThreats_FullMethodName, in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
