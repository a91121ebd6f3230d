// Package customresource implements the CloudFormation custom-resource
// protocol used by the handler: typed access to the resource properties of a
// lifecycle event, construction of the response document, and delivery of that
// document to the pre-signed response URL.
//
// Event and response shapes come from github.com/aws/aws-lambda-go/cfn.
package customresource
