/*
Package todosdk is a Go client for the taskboard API.

# SDKClient vs Session

SDKClient covers the public endpoints: registration, login, token refresh,
the holiday calendar and the health probes.

	client := todosdk.NewSDKClient("http://localhost:4000")

	user, err := client.Register(ctx, todosdk.RegisterRequest{
		Email:    "alice@example.com",
		Password: "pw123456",
		Username: "alice",
	})

	session, err := client.Authenticate(ctx, "alice@example.com", "pw123456")

A Session carries the caller's tokens. Before each call it checks the access
token's exp claim and trades the refresh token for a new access token when
fewer than 30 seconds remain.

	todo, err := session.CreateTodo(ctx, todosdk.CreateTodoRequest{Title: "Buy milk"})
	todo, err = session.ToggleTodo(ctx, todo.ID)
	todo, err = session.DeleteTodo(ctx, todo.ID)   // to the trash
	todo, err = session.RestoreTodo(ctx, todo.ID)  // back as active
	err = session.PurgeTodo(ctx, todo.ID)          // trashed todos only

Holiday writes need an admin session; reads are available on SDKClient.

# Partial updates

UpdateTodoRequest leaves nil fields untouched. To remove a stored value, set
the matching Clear flag, which sends an explicit JSON null:

	session.UpdateTodo(ctx, id, todosdk.UpdateTodoRequest{ClearDueDate: true})

# Errors

Failed calls return *APIError with the HTTP status and the API error code:

	_, err := session.GetTodo(ctx, id)
	if todosdk.IsNotFound(err) {
		// gone, or owned by someone else
	}
	switch todosdk.ErrorCode(err) {
	case todosdk.CodeTokenExpired:
	case todosdk.CodeValidation:
	}
*/
package todosdk
