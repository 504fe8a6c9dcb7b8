package apierror_test

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/sdfgen/pkg/apierror"
)

// ExampleNewErrorResponse shows constructing and serialising an error response.
func ExampleNewErrorResponse() {
	err := apierror.NewError(
		"UnknownDevice",
		"no driver descriptor matches compatible \"virtio,mmio\"",
	)

	errorResp := apierror.NewErrorResponse("compose-1", err)

	jsonData, _ := json.Marshal(errorResp)
	fmt.Println(string(jsonData))
	// Output: {"errors":[{"code":"UnknownDevice","message":"no driver descriptor matches compatible \"virtio,mmio\""}],"requestID":"compose-1"}
}

// ExampleErrorResponse_xml shows the XML encoding of the same response.
func ExampleErrorResponse_xml() {
	err := apierror.NewError("UnknownDevice", "no driver descriptor matches compatible \"virtio,mmio\"")
	errorResp := apierror.NewErrorResponse("compose-1", err)

	xmlData, _ := xml.MarshalIndent(errorResp, "", "    ")
	fmt.Println(string(xmlData))
	// Output:
	// <Response>
	//     <Errors>
	//         <Error>
	//             <Code>UnknownDevice</Code>
	//             <Message>no driver descriptor matches compatible &#34;virtio,mmio&#34;</Message>
	//         </Error>
	//     </Errors>
	//     <RequestID>compose-1</RequestID>
	// </Response>
}

// ExampleErrorResponse_gin shows the response inside a gin handler.
func ExampleErrorResponse_gin() {
	router := gin.Default()

	router.POST("/compose", func(c *gin.Context) {
		board := c.Query("board")

		if board == "" {
			err := apierror.NewError("InvalidConfig", "board name is required")
			errorResp := apierror.NewErrorResponse("compose-1", err)
			c.JSON(http.StatusBadRequest, errorResp)
			return
		}

		c.JSON(http.StatusOK, gin.H{"board": board})
	})

	router.Run(":8080")
}

// ExampleErrorResponse_predefined shows composing the composer's own taxonomy.
func ExampleErrorResponse_predefined() {
	errorResp := apierror.NewErrorResponse(
		"compose-1",
		apierror.ErrUnknownDevice,
		apierror.ErrInvalidConfig,
	)

	jsonData, _ := json.Marshal(errorResp)
	fmt.Println(string(jsonData))
}

// ExampleNewErrorWithRaw shows attaching a server-side cause for debugging.
func ExampleNewErrorWithRaw() {
	cause := fmt.Errorf("open config.json: no such file")
	err := apierror.NewErrorWithRaw(
		"UnknownDevice",
		"no driver descriptor matches compatible \"virtio,mmio\"",
		cause,
	)

	if err.RawError != nil {
		fmt.Printf("Debug: %v\n", err.RawError)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != nil {
		fmt.Printf("Unwrapped: %v\n", unwrapped)
	}

	jsonData, _ := json.Marshal(err)
	fmt.Println(string(jsonData))
	// Output:
	// Debug: open config.json: no such file
	// Unwrapped: open config.json: no such file
	// {"code":"UnknownDevice","message":"no driver descriptor matches compatible \"virtio,mmio\""}
}
