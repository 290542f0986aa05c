// Package routing dispatches calls given as a method name and string
// arguments to proxy instances. It backs command-style front ends, where the
// caller only has text: a CLI, a message queue or an HTTP query.
//
// [InstanceRouter] exposes the methods of one [proxygen.Instance]. A method
// with a single overload is routed under its name, e.g. "Sum". Overloaded
// methods are routed under their member keys, e.g. "Sum(int,int)", since a
// textual argument list cannot tell them apart reliably.
//
// Arguments are decoded into the parameter types of the member with
// [reflectx.DecodeArguments]. Results are encoded to bytes:
//
//   - no result is encoded as JSON null;
//   - a single result implementing [reflectx.BytesEncoder] encodes itself;
//   - a single proto.Message is encoded with protojson;
//   - anything else is encoded with encoding/json, several results as a JSON array.
//
// Several routers can be combined with the mux subpackage. [Code] and
// [Status] map routing errors to gRPC status codes.
//
// [proxygen.Instance]: github.com/anoideaopen/proxy/core/proxygen.Instance
// [reflectx.DecodeArguments]: github.com/anoideaopen/proxy/core/reflectx.DecodeArguments
// [reflectx.BytesEncoder]: github.com/anoideaopen/proxy/core/reflectx.BytesEncoder
package routing
