package chat

// Lines sent to users and to the operator console.
const (
	msgNotRecognized = "Command not recognized."
	msgMalformed     = "%s could not be processed: %s"
	msgMustLogin     = "You must log in first."
	msgClientOnly    = "%s is a client command; issue it while logged off."
	msgGoodbye       = "Goodbye."
	msgTooFast       = "You are sending messages too quickly."

	msgLoggedOn        = "%s has logged on."
	msgLoggedOff       = "%s has logged off."
	msgAlreadyLoggedIn = "You are already logged in as %s."
	msgHandleTaken     = "The handle %s is already in use. Disconnecting."
	msgHandleReserved  = "The handle %s is reserved. Disconnecting."
	msgHandleInvalid   = "Handles must be 1-%d characters without spaces."

	msgChat          = "%s> %s"
	msgPrivate       = "%s (private to %s)> %s"
	msgNotLoggedOn   = "User %s is not logged on."
	msgChannelSet    = "Now in channel %s."
	msgServerMessage = "SERVER MSG> %s"

	msgNoSuchUser       = "User %s does not exist."
	msgCannotBlockSelf  = "You cannot block the sending of messages to yourself."
	msgAlreadyBlocked   = "Messages from %s were already blocked."
	msgWillBlock        = "Messages from %s will be blocked."
	msgNotBlocked       = "Messages from %s were not blocked."
	msgUnblocked        = "Messages from %s will now be displayed."
	msgIsBlocked        = "Messages from %s are blocked."
	msgNoBlocking       = "No blocking is in effect."
	msgBlockedBy        = "Messages to you are being blocked by %s."
	msgNobodyBlocksYou  = "No one is blocking messages to you."
	msgCannotBlockSrv   = "The server cannot block itself."
	msgOperatorBlocked  = "Messages from %s will no longer be relayed."
	msgOperatorRelayed  = "Messages from %s will be relayed again."
	msgOperatorIsBlock  = "Messages from %s are not being relayed."
	msgOperatorAlready  = "Messages from %s were already not being relayed."
	msgOperatorNotBlock = "Messages from %s were being relayed."
)

// Administrative notices broadcast by the server.
const (
	NoticeStopped      = "WARNING - The server has stopped listening for connections"
	NoticeShuttingDown = "SERVER SHUTTING DOWN! DISCONNECTING"
)
